package rewrite

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"newsai/types"
)

// TextGenerator abstracts the generative service behind the rewrite stage.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// promptTemplate instructs the model to rewrite a Vietnamese article and
// answer with exactly two labeled sections. The forbidden-character rules
// are repeated by the sanitizer below, so stored text is clean even when
// the model ignores them.
const promptTemplate = `Viết lại bài viết sau theo phong cách tự nhiên, dễ hiểu, phù hợp với độc giả Việt Nam.
Tiêu đề sát với tiêu đề gốc, hấp dẫn, kích thích người dùng nhấp vào đọc nhưng không giật gân, gây sốc.

Không sử dụng bất kỳ ký tự đặc biệt nào trong tiêu đề hoặc nội dung, bao gồm: *, ", ', !, #, hoặc viết HOA TOÀN BỘ.
Không in đậm, không in nghiêng, không chèn định dạng markdown.

Nội dung cần được giữ đầy đủ thông tin, diễn đạt lại bằng ngôn từ mới, dễ đọc, chia đoạn hợp lý để tăng sự cuốn hút.
Không rút gọn quá mức, không thêm nhận xét cá nhân hay thông tin không có trong bài gốc.

Chỉ trả về kết quả với hai phần:
Tiêu đề: ...
Nội dung: ...

Bài viết gốc:
Tiêu đề: %s
Nội dung: %s`

var (
	titleMarkerExpr   = regexp.MustCompile(`(?i)Tiêu(?:\s|_)đề:\s*(.+)`)
	contentMarkerExpr = regexp.MustCompile(`(?is)Nội(?:\s|_)dung:\s*(.*)`)

	specialCharExpr = regexp.MustCompile(`[*"'“”‘’!#]+`)
	multiSpaceExpr  = regexp.MustCompile(`\s{2,}`)
)

// Rewriter produces AI-rewritten titles and bodies. It is an enrichment
// stage: every failure degrades to empty fields and a log line.
type Rewriter struct {
	generator TextGenerator

	// maxContentLen truncates the article body embedded in the prompt to
	// stay inside the model context. Zero means no cap.
	maxContentLen int
}

// New builds a Rewriter on top of a text generator.
func New(generator TextGenerator, maxContentLen int) *Rewriter {
	return &Rewriter{generator: generator, maxContentLen: maxContentLen}
}

// Rewrite asks the service for a rewritten title and body. It never
// returns an error; an unavailable or non-compliant service yields empty
// fields.
func (r *Rewriter) Rewrite(ctx context.Context, title, content string) types.RewriteResult {
	if r == nil || r.generator == nil {
		return types.RewriteResult{}
	}

	if r.maxContentLen > 0 && len(content) > r.maxContentLen {
		// Back up to a rune boundary so the cut never leaves a split
		// multi-byte character at the prompt tail.
		cut := r.maxContentLen
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	prompt := fmt.Sprintf(promptTemplate, title, content)
	raw, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("rewrite failed for %q: %v", title, err)
		return types.RewriteResult{}
	}

	return ParseResponse(raw)
}

// ParseResponse splits the model output on the literal section markers.
// A missing marker leaves that field empty.
func ParseResponse(raw string) types.RewriteResult {
	var result types.RewriteResult

	// The content section is matched first and cut off the text so the
	// title match cannot grab the body's first line.
	head := raw
	if loc := contentMarkerExpr.FindStringSubmatchIndex(raw); loc != nil {
		result.Rewritten = CleanText(raw[loc[2]:loc[3]])
		head = raw[:loc[0]]
	}
	if m := titleMarkerExpr.FindStringSubmatch(head); m != nil {
		result.RewriteTitle = CleanText(m[1])
	}

	return result
}

// CleanText strips the punctuation and markup characters the prompt
// forbids and collapses repeated whitespace. This is a stored-content
// policy, enforced regardless of what the model returns.
func CleanText(text string) string {
	text = specialCharExpr.ReplaceAllString(text, "")
	text = multiSpaceExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
