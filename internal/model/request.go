package model

type ImageConfig struct {
	AspectRatio string `json:"aspect_ratio"`
	ImageSize   string `json:"image_size"`
}

type GenerationConfig struct {
	Temperature    float64     `json:"temperature"`
	CandidateCount int         `json:"candidate_count"`
	ImageConfig    ImageConfig `json:"image_config"`
}

type FileData struct {
	FileURI  string `json:"file_uri"`
	MIMEType string `json:"mime_type"`
}

type RequestPart struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"file_data,omitempty"`
}

type RequestContent struct {
	Role  string        `json:"role"`
	Parts []RequestPart `json:"parts"`
}

type GenerateRequest struct {
	Contents         []RequestContent `json:"contents"`
	GenerationConfig GenerationConfig `json:"generation_config"`
}

// BatchRequest is one line of the batch input JSONL file. Key carries the
// input image name so results can be matched back to it.
type BatchRequest struct {
	Key     string          `json:"key"`
	Request GenerateRequest `json:"request"`
}
