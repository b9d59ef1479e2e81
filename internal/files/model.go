// Package files defines the metadata model and repositories for objects
// stored in the vault. The sealed content itself lives in object storage;
// only descriptive metadata and the per-file sealing material are kept here.
package files

import "time"

// SecureFile describes one protected file owned by a vault user.
type SecureFile struct {
	// ID is the stable identifier (uuid) used by delete/download/share.
	ID string
	// Owner is the identity the file belongs to.
	Owner string
	// Name is the original file name as uploaded.
	Name string
	// StorageKey is the object-storage locator of the sealed blob.
	StorageKey string
	// MediaType is the detected content type of the plaintext.
	MediaType string
	// Size is the plaintext size in bytes.
	Size int64

	// FileKey and Nonce open the sealed blob.
	FileKey []byte
	Nonce   []byte

	UploadedAt time.Time
}
