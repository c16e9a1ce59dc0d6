package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"

	"github.com/goroads/kerbside/core/upload"
	"github.com/goroads/kerbside/core/user"
	minioStore "github.com/goroads/kerbside/internal/store/minio"
	"github.com/goroads/kerbside/pkg/loading"
)

func uploadCmd() *cobra.Command {
	var assetID, category, contentType string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an inspection photo for an asset",
		Example: heredoc.Doc(`
			$ kerbside upload photo.jpg --asset-id G-100
			$ kerbside upload sign.png --asset-id S-17 --category inspections
		`),
		Args: cobra.ExactArgs(1),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runUpload(cmd.Context(), cfg, args[0], assetID, category, contentType)
		},
	}

	cmd.Flags().StringVar(&assetID, "asset-id", "", "ID of the asset the photo documents")
	cmd.Flags().StringVar(&category, "category", upload.DefaultCategory, "Storage category the photo lands under")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Override the media type detected from the file extension")

	return cmd
}

func runUpload(ctx context.Context, cfg Config, path, assetID, category, contentType string) error {
	logger := initLogger(cfg.LogLevel)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}

	blobStore, err := minioStore.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	pipeline := upload.NewPipeline(upload.PipelineDeps{
		Store:  blobStore,
		Users:  user.NewStaticProvider(cfg.Operator.Email, cfg.Operator.Provider),
		Logger: logger,
	})

	file := &upload.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Content:     f,
	}

	var referenceURL string
	run := loading.WithIndicator(logger, "uploading photo", func(ctx context.Context) error {
		for event := range pipeline.Watch(ctx, file, assetID, category) {
			switch event.Kind {
			case upload.EventProgress:
				fmt.Printf("\ruploading... %3d%%", event.Pct)
			case upload.EventSuccess:
				fmt.Println()
				referenceURL = event.URL
			case upload.EventFailure:
				fmt.Println()
				return event.Err
			}
		}
		return nil
	})

	if err := run(ctx); err != nil {
		return err
	}

	fmt.Println(term.Green("photo uploaded"))
	fmt.Println(referenceURL)
	return nil
}
