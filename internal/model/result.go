package model

import "encoding/json"

type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// UnmarshalJSON accepts both snake_case and camelCase field names; the
// result file uses whichever casing the backend serialised with.
func (d *InlineData) UnmarshalJSON(b []byte) error {
	var raw struct {
		MIMETypeSnake string `json:"mime_type"`
		MIMETypeCamel string `json:"mimeType"`
		Data          string `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.Data = raw.Data
	d.MIMEType = raw.MIMETypeSnake
	if d.MIMEType == "" {
		d.MIMEType = raw.MIMETypeCamel
	}
	return nil
}

type ResultPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"-"`
}

func (p *ResultPart) UnmarshalJSON(b []byte) error {
	var raw struct {
		Text        string      `json:"text"`
		InlineSnake *InlineData `json:"inline_data"`
		InlineCamel *InlineData `json:"inlineData"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Text = raw.Text
	p.InlineData = raw.InlineSnake
	if p.InlineData == nil {
		p.InlineData = raw.InlineCamel
	}
	return nil
}

type Candidate struct {
	Content struct {
		Parts []ResultPart `json:"parts"`
	} `json:"content"`
}

type ResultError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// BatchResult is one line of the batch output JSONL file.
type BatchResult struct {
	Key      string `json:"key"`
	CustomID string `json:"custom_id"`
	Response struct {
		Candidates []Candidate `json:"candidates"`
	} `json:"response"`
	Error *ResultError `json:"error,omitempty"`
}

// ID returns the request key, falling back to the legacy custom_id field.
func (r *BatchResult) ID() string {
	if r.Key != "" {
		return r.Key
	}
	return r.CustomID
}
