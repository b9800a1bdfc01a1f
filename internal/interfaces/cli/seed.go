package cli

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	catalogapp "github.com/merrysway/storefront/internal/application/catalog"
	"github.com/merrysway/storefront/internal/infrastructure/cache"
	"github.com/merrysway/storefront/internal/infrastructure/persistence"
	"github.com/merrysway/storefront/internal/infrastructure/storage"
)

const imagePrefix = "images"

// SeedOptions holds the flags of the seed command
type SeedOptions struct {
	ImagesDir string
}

// ImageUploader stores product images in object storage
type ImageUploader interface {
	ObjectExists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

func newSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed <products.jsonl>",
		Short: "Load the product catalog from a JSON lines file",
		Long: `Load the product catalog from a JSON lines file. Products are
matched by name, so running the seed again updates prices and descriptions.

With --images and object storage enabled, every file of the directory is
uploaded under images/ unless an object with that key already exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), rootOpts, opts, args[0], cmd)
		},
	}
	cmd.Flags().StringVar(&opts.ImagesDir, "images", "", "directory of product images to upload")
	return cmd
}

func runSeed(ctx context.Context, rootOpts *RootOptions, opts *SeedOptions, file string, cmd *cobra.Command) error {
	cfg, log, err := rootOpts.load()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}

	productCache, err := cache.NewProductCache(cfg.Redis, cache.WithLogger(log))
	if err != nil {
		return err
	}
	defer productCache.Close()

	service := catalogapp.NewService(
		persistence.NewGormProductRepository(db.DB),
		productCache,
		storage.PublicImageSigner{},
		log,
	)

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	saved, err := service.Import(ctx, f)
	if err != nil {
		return fmt.Errorf("seed stopped after %d products: %w", saved, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", saved)

	if opts.ImagesDir == "" {
		return nil
	}
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, skipping image upload", zap.String("dir", opts.ImagesDir))
		return nil
	}
	store, err := storage.NewS3ImageStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}
	uploaded, err := uploadImages(ctx, store, os.DirFS(opts.ImagesDir), log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d images\n", uploaded)
	return nil
}

// uploadImages copies every regular file of dir to images/<path>, skipping
// keys that already exist
func uploadImages(ctx context.Context, store ImageUploader, dir fs.FS, log *zap.Logger) (int, error) {
	uploaded := 0
	err := fs.WalkDir(dir, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		key := path.Join(imagePrefix, name)
		exists, err := store.ObjectExists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			log.Debug("Image already uploaded", zap.String("key", key))
			return nil
		}
		data, err := fs.ReadFile(dir, name)
		if err != nil {
			return err
		}
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := store.Upload(ctx, key, data, contentType); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	return uploaded, err
}
