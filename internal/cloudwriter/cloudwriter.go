package cloudwriter

import "context"

// CloudWriter buffers an object and uploads it on Close.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(ctx context.Context, bucket, objectPath string) (CloudWriter, error)
}

// Upload writes data as a single object through factory.
func Upload(ctx context.Context, factory CloudWriterFactory, bucket, objectPath string, data []byte) error {
	w, err := factory.NewWriter(ctx, bucket, objectPath)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
