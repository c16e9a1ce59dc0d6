package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"

	"github.com/goroads/kerbside/core/upload"
	"github.com/goroads/kerbside/core/user"
	minioStore "github.com/goroads/kerbside/internal/store/minio"
)

func storageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage <command>",
		Short: "Inspect the photo storage backend",
		Example: heredoc.Doc(`
			$ kerbside storage test
		`),
	}

	cmd.AddCommand(storageTestCommand())
	return cmd
}

func storageTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the blob store is reachable and authorized",
		Example: heredoc.Doc(`
			$ kerbside storage test
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := initLogger(cfg.LogLevel)
			blobStore, err := minioStore.NewBlobStore(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}

			pipeline := upload.NewPipeline(upload.PipelineDeps{
				Store:  blobStore,
				Users:  user.NewStaticProvider(cfg.Operator.Email, cfg.Operator.Provider),
				Logger: logger,
			})

			if err := pipeline.TestConnection(cmd.Context()); err != nil {
				fmt.Println(term.Red("storage connection test failed"))
				return err
			}

			fmt.Println(term.Green("storage connection verified"))
			return nil
		},
	}
}
