package cli

import (
	"context"
	"fmt"
	"os"
)

// List prints the files stored in the vault, one per line.
func (a *App) List(ctx context.Context) error {
	items, err := a.controller.ListFiles(ctx)
	if err != nil {
		a.logger.Error(ctx, "list failed", "error", err)
		return err
	}

	if len(items) == 0 {
		fmt.Println("The vault is empty.")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %s  %s  %d bytes\n", item.ID, item.Name, item.MediaType, item.Size)
	}
	return nil
}

// Upload encrypts a local file and stores it in the vault.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to the file", os.Stdout)
	if err != nil {
		return err
	}

	item, err := a.controller.UploadFile(ctx, path)
	if err != nil {
		a.logger.Error(ctx, "upload failed", "error", err)
		return err
	}

	fmt.Printf("Uploaded %s (id %s)\n", item.Name, item.ID)
	return nil
}

// Download fetches a vault file, decrypts it, and writes it to the
// configured download directory.
func (a *App) Download(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}

	path, err := a.controller.DownloadFile(ctx, id, a.config.DownloadDir)
	if err != nil {
		a.logger.Error(ctx, "download failed", "error", err)
		return err
	}

	fmt.Printf("Saved to %s\n", path)
	return nil
}

// Share prints a time-limited link to the encrypted object.
func (a *App) Share(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}

	url, err := a.controller.ShareFile(ctx, id)
	if err != nil {
		a.logger.Error(ctx, "share failed", "error", err)
		return err
	}

	fmt.Println(url)
	return nil
}

// Delete removes a file from the vault.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.controller.DeleteFile(ctx, id); err != nil {
		a.logger.Error(ctx, "delete failed", "error", err)
		return err
	}

	fmt.Println("Deleted.")
	return nil
}
