package cmd

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/chrisdamba/vendorcast/internal/cloudwriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Upload the memory file to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		bucket, _ := cmd.Flags().GetString("bucket")
		if bucket == "" {
			bucket = a.cfg.CloudStorage.BucketName
		}
		if bucket == "" {
			return errors.New("no bucket: pass --bucket or set cloud_storage.bucket_name")
		}
		prefix, _ := cmd.Flags().GetString("prefix")

		data, err := a.store.Snapshot()
		if err != nil {
			return err
		}
		factory, err := cloudwriter.NewS3WriterFactory(cmd.Context(), a.cfg.CloudStorage.Region)
		if err != nil {
			return fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		key := path.Join(prefix, fmt.Sprintf("memory-%s.json", time.Now().UTC().Format("20060102T150405Z")))
		if err := cloudwriter.Upload(cmd.Context(), factory, bucket, key, data); err != nil {
			return err
		}
		a.logger.Info("memory snapshot uploaded", zap.String("bucket", bucket), zap.String("key", key), zap.Int("bytes", len(data)))
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded s3://%s/%s\n", bucket, key)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().String("bucket", "", "destination bucket (default cloud_storage.bucket_name)")
	snapshotCmd.Flags().String("prefix", "snapshots", "object key prefix")
	rootCmd.AddCommand(snapshotCmd)
}
