package model

// Submission is written next to the downloaded images as
// submission_details.json so a job folder records how it was produced.
type Submission struct {
	JobID       string           `json:"job_id"`
	DisplayName string           `json:"display_name"`
	Model       string           `json:"model"`
	Prompt      string           `json:"prompt"`
	Config      GenerationConfig `json:"config"`
	CreatedAt   string           `json:"created_at"`
	Status      string           `json:"status"`
	InputDir    string           `json:"input_dir,omitempty"`
	Files       []string         `json:"files,omitempty"`
	Failed      []string         `json:"failed,omitempty"`
}
