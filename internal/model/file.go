package model

import "time"

type FileState string

const (
	FileStateUnspecified FileState = "STATE_UNSPECIFIED"
	FileStateProcessing  FileState = "PROCESSING"
	FileStateActive      FileState = "ACTIVE"
	FileStateFailed      FileState = "FAILED"
)

// StoredFile is a File API record.
type StoredFile struct {
	Name           string
	DisplayName    string
	URI            string
	MIMEType       string
	SizeBytes      int64
	State          FileState
	ExpirationTime time.Time
}
