package models

// Quote is a single stored knock-knock record.
type Quote struct {
	ID        string `json:"id" yaml:"id" example:"boo"`
	WhosThere string `json:"whos_there" yaml:"whos_there" example:"Boo"`
	AnswerWho string `json:"answer_who" yaml:"answer_who" example:"Don't cry, it's only a joke!"`
	Source    string `json:"source" yaml:"source" example:"Playground classic"`
}

// TaggedQuote is a quote together with its tag set. It is the shape used on
// the wire, in bulk-load files and as the add-quote request body.
type TaggedQuote struct {
	ID        string   `json:"id" yaml:"id" binding:"required,notblank" example:"boo"`
	WhosThere string   `json:"whos_there" yaml:"whos_there" binding:"required,notblank" example:"Boo"`
	AnswerWho string   `json:"answer_who" yaml:"answer_who" binding:"required,notblank" example:"Don't cry, it's only a joke!"`
	Tags      []string `json:"tags" yaml:"tags" binding:"dive,notblank" example:"kids,classic"`
	Source    string   `json:"source" yaml:"source" example:"Playground classic"`
}

// NewTaggedQuote joins a stored quote with its tags.
func NewTaggedQuote(q Quote, tags []string) TaggedQuote {
	if tags == nil {
		tags = []string{}
	}
	return TaggedQuote{
		ID:        q.ID,
		WhosThere: q.WhosThere,
		AnswerWho: q.AnswerWho,
		Tags:      tags,
		Source:    q.Source,
	}
}

// Quote strips the tags off.
func (t TaggedQuote) Quote() Quote {
	return Quote{
		ID:        t.ID,
		WhosThere: t.WhosThere,
		AnswerWho: t.AnswerWho,
		Source:    t.Source,
	}
}
