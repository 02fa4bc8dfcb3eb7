package internal

// RecordSource supplies inventory records in document order. Next returns
// io.EOF when the source is exhausted.
type RecordSource interface {
	Next() (*Record, error)
}
