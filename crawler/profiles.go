package crawler

import "strings"

// SourceProfile holds the per-publisher selector configuration. Selector
// slices are ordered: earlier entries win.
type SourceProfile struct {
	Name             string
	URLMatchers      []string
	TitleSelectors   []string
	AuthorSelectors  []string
	ContentSelectors []string
}

// Generic is the fallback profile with the selector patterns most commonly
// seen across Vietnamese news sites. It is used whenever no matcher hits,
// so extraction degrades instead of failing on unseen publishers.
var Generic = SourceProfile{
	Name: "Unknown",
	TitleSelectors: []string{
		"h1.title-detail", "h1.title", "h1.article-title", "h1.st-name",
		"h1.dt-news__title", "h1.news-title", "h1.article__title",
	},
	AuthorSelectors: []string{
		".author", ".author-name", ".article-author", ".bio__info",
	},
	ContentSelectors: []string{
		".fck_detail", ".article-content", ".dt-news__content",
		".content-detail", ".detail-content", ".article-body",
	},
}

// profiles is the ordered list of known publishers; first URL match wins.
var profiles = []SourceProfile{
	{
		Name:            "VnExpress",
		URLMatchers:     []string{"vnexpress.net"},
		TitleSelectors:  []string{"h1.title-detail", "h1.title", "h1.title_news_detail", "h1.article-title"},
		AuthorSelectors: []string{".author_mail", ".author", ".author_top"},
		ContentSelectors: []string{
			".fck_detail", ".article-content", ".normal",
		},
	},
	{
		Name:             "Dân Trí",
		URLMatchers:      []string{"dantri.com.vn"},
		TitleSelectors:   []string{"h1.title-page", "h1.dt-news__title"},
		AuthorSelectors:  []string{".author-name", ".dt-news__author"},
		ContentSelectors: []string{".singular-content", ".dt-news__content"},
	},
	{
		Name:             "Tuổi Trẻ",
		URLMatchers:      []string{"tuoitre.vn"},
		TitleSelectors:   []string{"h1.detail-title", "h1.article-title"},
		AuthorSelectors:  []string{".detail-author", ".author-info"},
		ContentSelectors: []string{".detail-content", ".content-detail"},
	},
	{
		Name:             "Thanh Niên",
		URLMatchers:      []string{"thanhnien.vn"},
		TitleSelectors:   []string{"h1.detail-title", "h1.details__headline"},
		AuthorSelectors:  []string{".author-info-top", ".details__author"},
		ContentSelectors: []string{".detail-content", ".details__content"},
	},
	{
		Name:             "VietnamNet",
		URLMatchers:      []string{"vietnamnet.vn"},
		TitleSelectors:   []string{"h1.content-detail-title", "h1.newsDetail__title"},
		AuthorSelectors:  []string{".article-detail-author", ".newsDetail__author"},
		ContentSelectors: []string{".maincontent", ".content-detail"},
	},
}

// Classify maps a URL to a publisher profile, falling back to Generic.
func Classify(url string) SourceProfile {
	for _, p := range profiles {
		for _, m := range p.URLMatchers {
			if m != "" && strings.Contains(url, m) {
				return p
			}
		}
	}
	return Generic
}
