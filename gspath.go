package relsurv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"google.golang.org/api/googleapi"
)

// GSPrefix marks a path as a Google Storage object rather than a local file.
const GSPrefix = "gs://"

// ErrOutputExists is returned when asked to create a file that is already
// present. Results are never overwritten.
var ErrOutputExists = errors.New("output path exists")

// IsGSPath reports whether path points at Google Storage.
func IsGSPath(path string) bool {
	return strings.HasPrefix(path, GSPrefix)
}

// AnyGSPath reports whether any of the paths points at Google Storage, which
// is how callers decide whether a storage client is needed at all.
func AnyGSPath(paths ...string) bool {
	for _, v := range paths {
		if IsGSPath(v) {
			return true
		}
	}

	return false
}

// SplitGSPath detects the bucket and the path to the actual object.
func SplitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, GSPrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path %q into bucket and object, but got %d parts: %v", path, len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// ReadAll reads the complete contents of a local file or a Google Storage
// object. The bytes are returned as stored; no decompression is attempted.
func ReadAll(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	if IsGSPath(path) {
		handle, err := objectHandle(path, client)
		if err != nil {
			return nil, pfx.Err(err)
		}

		rdr, err := handle.NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		defer rdr.Close()

		out, err := io.ReadAll(rdr)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		return out, nil
	}

	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// PathExists reports whether a local file or a Google Storage object is
// already present at path.
func PathExists(ctx context.Context, path string, client *storage.Client) (bool, error) {
	if IsGSPath(path) {
		handle, err := objectHandle(path, client)
		if err != nil {
			return false, pfx.Err(err)
		}

		_, err = handle.Attrs(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		} else if err != nil {
			return false, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		return true, nil
	}

	path, err := ExpandHome(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, pfx.Err(err)
	}

	return true, nil
}

// CreateExclusive opens a new file for writing at path. If anything already
// exists there, the returned error wraps ErrOutputExists. For Google Storage
// the check is enforced by a does-not-exist precondition, which is only
// evaluated when the writer is closed; Close then reports ErrOutputExists.
func CreateExclusive(ctx context.Context, path string, client *storage.Client) (io.WriteCloser, error) {
	if IsGSPath(path) {
		handle, err := objectHandle(path, client)
		if err != nil {
			return nil, pfx.Err(err)
		}

		w := handle.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
		w.ContentType = "text/csv"

		return &gsExclusiveWriter{Writer: w, path: path}, nil
	}

	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

func objectHandle(path string, client *storage.Client) (*storage.ObjectHandle, error) {
	if client == nil {
		return nil, fmt.Errorf("%s: a google storage client is required for %s paths", path, GSPrefix)
	}

	bucketName, objectName, err := SplitGSPath(path)
	if err != nil {
		return nil, err
	}

	return client.Bucket(bucketName).Object(objectName), nil
}

// gsExclusiveWriter translates a failed does-not-exist precondition into
// ErrOutputExists.
type gsExclusiveWriter struct {
	*storage.Writer
	path string
}

func (w *gsExclusiveWriter) Close() error {
	err := w.Writer.Close()

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s", ErrOutputExists, w.path)
	}

	return pfx.Err(err)
}
