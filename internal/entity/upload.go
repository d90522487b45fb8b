package entity

// UploadedFile is the ephemeral view of one uploaded file. It exists only for
// the duration of one processing call and is never persisted. The media type
// is declared by the client and untrusted. Exactly one of Path and Content is
// set: Path when the upload middleware already spilled the file to disk,
// Content when the upload arrived as an in-memory buffer.
type UploadedFile struct {
	MediaType    string
	Path         string
	Content      []byte
	OriginalName string
}

// DiskBacked reports whether the upload already has a backing path on disk
// owned by the upload layer.
func (u *UploadedFile) DiskBacked() bool {
	return u.Path != ""
}
