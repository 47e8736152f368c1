package forward

// Content is one block of a tool result. Type is always "text".
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the uniform shape every tool call collapses into.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// TextResult wraps text in a successful result.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult wraps text in an error-flagged result.
func ErrorResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// Text returns the text of the first content block.
func (r Result) Text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}
