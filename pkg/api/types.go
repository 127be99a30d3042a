package api

// ArticleSummary is the listing record for one publication.
type ArticleSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Institution string   `json:"institution"`
	Abstract    string   `json:"abstract"`
	Tags        []string `json:"tags"`
	Likes       int      `json:"likes"`
	Comments    int      `json:"comments"`
	Shares      int      `json:"shares"`
	Views       int      `json:"views"`
	ReadTime    *string  `json:"readTime"`
	PublishDate string   `json:"publishDate"`
	ImageURL    string   `json:"image_url"`
}

// ArticleDetail is the full record fetched on demand for the detail view.
type ArticleDetail struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Institution string   `json:"institution"`
	PublishDate string   `json:"publishDate"`
	ReadTime    *string  `json:"readTime"`
	Likes       int      `json:"likes"`
	Comments    int      `json:"comments"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
}

// Article is the stored record behind both projections.
type Article struct {
	ArticleSummary
	Content string `json:"content"`
}

// Summary projects the listing fields.
func (a Article) Summary() ArticleSummary {
	s := a.ArticleSummary
	s.Tags = append([]string(nil), a.Tags...)
	return s
}

// Detail projects the detail-view fields.
func (a Article) Detail() ArticleDetail {
	return ArticleDetail{
		ID:          a.ID,
		Title:       a.Title,
		Author:      a.Author,
		Institution: a.Institution,
		PublishDate: a.PublishDate,
		ReadTime:    a.ReadTime,
		Likes:       a.Likes,
		Comments:    a.Comments,
		Tags:        append([]string(nil), a.Tags...),
		Content:     a.Content,
	}
}

// Attachment is an optional binary part sent with a draft.
type Attachment struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Draft is an unpublished article being composed.
type Draft struct {
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Institution string      `json:"institution"`
	Abstract    string      `json:"abstract"`
	Tags        []string    `json:"tags"`
	Content     string      `json:"content"`
	Image       *Attachment `json:"image,omitempty"`
}

// ReadTimeLabel returns the label or "" when absent.
func ReadTimeLabel(rt *string) string {
	if rt == nil {
		return ""
	}
	return *rt
}
