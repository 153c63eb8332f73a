package trash

import (
	"fmt"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
	"github.com/OmbraDiFenice/dupe-remover/internal/config"
)

// NewTrashFromConfig creates a Trash implementation based on the trash
// config type. Type "none" (or empty) disables trashing and returns nil.
func NewTrashFromConfig(cfg config.TrashConfig) (clones.Trash, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryTrash(), nil
	case "filesystem":
		if cfg.FSTrashRoot == "" {
			return nil, fmt.Errorf("filesystem trash requires fs_trash_root to be set")
		}
		return NewFileSystemTrash(cfg.FSTrashRoot)
	case "s3":
		return NewS3Trash(S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown trash type: %s", cfg.Type)
	}
}
