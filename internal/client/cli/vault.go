package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/securoserv/securovault/internal/client/models"
)

// List refreshes the vault listing and prints folders first, then numbered
// files. The numbers feed the download/delete commands.
func (a *App) List(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	data, err := a.vault.Refresh(ctx)
	if err != nil {
		fmt.Println("Listing failed:", err)
		return err
	}

	if len(data.Files) == 0 && len(data.Folders) == 0 {
		fmt.Println("Your vault is empty")
		return nil
	}

	for _, f := range data.Folders {
		fmt.Printf("      [dir] %s\n", f.DisplayName())
	}
	for i, f := range data.Files {
		stamp := ""
		if !f.CreatedAt.IsZero() {
			stamp = f.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%5d %10d  %-16s %s\n", i+1, f.Size, stamp, f.DisplayName())
	}
	return nil
}

// pickFile resolves a 1-based listing number to the cached file entry.
func (a *App) pickFile(args []string, usage string) (models.VaultItem, bool) {
	cached := a.vault.Cached()
	if cached == nil {
		fmt.Println("Run 'list' first")
		return models.VaultItem{}, false
	}
	if len(args) != 1 {
		fmt.Println(usage)
		return models.VaultItem{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(cached.Files) {
		fmt.Println("No such file number; run 'list' to see them")
		return models.VaultItem{}, false
	}
	return cached.Files[n-1], true
}

// Download fetches and saves one file from the last listing.
func (a *App) Download(ctx context.Context, args []string) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	item, ok := a.pickFile(args, "Usage: download <n>")
	if !ok {
		return nil
	}

	path, err := a.vault.Download(ctx, item)
	if err != nil {
		return err
	}
	fmt.Println("Saved to", path)
	return nil
}

// Delete removes one file from the last listing, after an explicit
// confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	item, ok := a.pickFile(args, "Usage: delete <n>")
	if !ok {
		return nil
	}

	yes, err := Confirm(a.reader, fmt.Sprintf("Delete %q? This cannot be undone.", item.DisplayName()), os.Stdout)
	if err != nil {
		return err
	}
	if !yes {
		fmt.Println("Cancelled")
		return nil
	}

	return a.vault.Delete(ctx, item.ID)
}

// Quota prints the current storage usage against the plan's total.
func (a *App) Quota(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	snap, err := a.quota.Snapshot(ctx)
	if err != nil {
		fmt.Println("Quota check failed:", err)
		return err
	}

	fmt.Printf("Storage: %.1f MB of %.0f MB used (%.0f%%)\n", snap.UsedMB, snap.TotalMB, snap.Percent())
	return nil
}
