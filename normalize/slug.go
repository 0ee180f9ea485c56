package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// vietnameseMap folds Vietnamese diacritics to base Latin letters. This is
// an explicit table rather than generic Unicode decomposition: category
// matching depends on the exact bytes this produces, and the table only
// needs to cover the Vietnamese alphabet.
var vietnameseMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'ạ': 'a', 'ả': 'a', 'ã': 'a',
	'â': 'a', 'ầ': 'a', 'ấ': 'a', 'ậ': 'a', 'ẩ': 'a', 'ẫ': 'a',
	'ă': 'a', 'ằ': 'a', 'ắ': 'a', 'ặ': 'a', 'ẳ': 'a', 'ẵ': 'a',
	'è': 'e', 'é': 'e', 'ẹ': 'e', 'ẻ': 'e', 'ẽ': 'e',
	'ê': 'e', 'ề': 'e', 'ế': 'e', 'ệ': 'e', 'ể': 'e', 'ễ': 'e',
	'ì': 'i', 'í': 'i', 'ị': 'i', 'ỉ': 'i', 'ĩ': 'i',
	'ò': 'o', 'ó': 'o', 'ọ': 'o', 'ỏ': 'o', 'õ': 'o',
	'ô': 'o', 'ồ': 'o', 'ố': 'o', 'ộ': 'o', 'ổ': 'o', 'ỗ': 'o',
	'ơ': 'o', 'ờ': 'o', 'ớ': 'o', 'ợ': 'o', 'ở': 'o', 'ỡ': 'o',
	'ù': 'u', 'ú': 'u', 'ụ': 'u', 'ủ': 'u', 'ũ': 'u',
	'ư': 'u', 'ừ': 'u', 'ứ': 'u', 'ự': 'u', 'ử': 'u', 'ữ': 'u',
	'ỳ': 'y', 'ý': 'y', 'ỵ': 'y', 'ỷ': 'y', 'ỹ': 'y',
	'đ': 'd',
}

var (
	nonWordExpr   = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	separatorExpr = regexp.MustCompile(`[\s_-]+`)
)

// Slugify converts free text to a URL-safe slug: lowercase, Vietnamese
// diacritics folded via the table above, remaining non-word characters
// stripped, runs of whitespace/underscores/hyphens collapsed to a single
// hyphen, leading and trailing hyphens trimmed. The transform is
// deterministic and idempotent; the output contains only [a-z0-9-].
func Slugify(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if folded, ok := vietnameseMap[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}

	s := nonWordExpr.ReplaceAllString(b.String(), "")
	s = separatorExpr.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugFromURL derives an article slug from the source URL's last path
// segment (minus a trailing .html), falling back to a slugified title and
// finally to a timestamp-based slug so the result is never empty.
func SlugFromURL(rawURL, title string) string {
	if u, err := url.Parse(rawURL); err == nil {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		last := segments[len(segments)-1]
		last = strings.TrimSuffix(last, ".html")
		if slug := Slugify(last); slug != "" {
			return slug
		}
	}

	if slug := Slugify(title); slug != "" {
		return slug
	}

	return fmt.Sprintf("article-%d", time.Now().Unix())
}

// ReadTime estimates reading minutes for the given text at wordsPerMinute,
// rounded up. Empty text reads in zero minutes.
func ReadTime(text string, wordsPerMinute int) int {
	words := len(strings.Fields(text))
	if words == 0 || wordsPerMinute <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
