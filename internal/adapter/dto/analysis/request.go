package analysis

// UploadRequest carries the multipart upload metadata checked before any
// pipeline work starts. Content validation (size limit, extension allow
// list) happens in the handler; this catches degenerate uploads early.
type UploadRequest struct {
	Filename string `validate:"required,max=255"`
	Size     int64  `validate:"gte=0"`
}
