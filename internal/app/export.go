package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"daybook/internal/vault"
)

// Export snapshots the journal database and uploads it to the configured
// vault. When encryption keys are configured the snapshot is age-encrypted
// first; encryption needs only the public key, so no passphrase is required.
// Returns the stored snapshot name.
//
// Export is an explicit user command — the journal core itself never talks
// to a vault. The snapshot name embeds the host ID and a UTC timestamp so
// snapshots from different devices never collide.
func (a *App) Export() (string, error) {
	v, err := a.openVault()
	if err != nil {
		return "", err
	}

	snapPath, err := tempPath("daybook-export-*.db")
	if err != nil {
		return "", err
	}
	defer os.Remove(snapPath)

	if err := a.store.SnapshotTo(snapPath); err != nil {
		return "", fmt.Errorf("snapshotting journal: %w", err)
	}

	name := fmt.Sprintf("journal-%s-%s.db", a.cfg.HostID, a.clock.Now().UTC().Format("20060102T150405Z"))
	uploadPath := snapPath

	if a.encryptor.IsConfigured() {
		encPath, err := a.encryptSnapshot(snapPath)
		if err != nil {
			return "", err
		}
		defer os.Remove(encPath)
		uploadPath = encPath
		name += ".age"
	}

	f, err := os.Open(uploadPath)
	if err != nil {
		return "", fmt.Errorf("opening snapshot for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat snapshot: %w", err)
	}

	if err := v.PutSnapshot(name, f, info.Size()); err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	a.logger.Info("snapshot exported", "name", name, "bytes", info.Size())
	return name, nil
}

// ListSnapshots returns the snapshot names stored in the configured vault.
func (a *App) ListSnapshots() ([]string, error) {
	v, err := a.openVault()
	if err != nil {
		return nil, err
	}
	return v.ListSnapshots()
}

// Restore downloads a snapshot from the vault and replaces the local
// journal database with it. Encrypted snapshots (".age" suffix) are
// decrypted with the private key unlocked by passphrase. The previous
// database file is kept next to the new one as a safety backup.
//
// The app's store handle is closed by this operation; the process is
// expected to exit afterwards.
func (a *App) Restore(name, passphrase string) error {
	if a.cfg.Database.Type != "sqlite" || a.cfg.Database.DataDir == "" {
		return fmt.Errorf("restore requires a sqlite database with data_dir set")
	}

	v, err := a.openVault()
	if err != nil {
		return err
	}

	fetchPath, err := tempPath("daybook-restore-*")
	if err != nil {
		return err
	}
	defer os.Remove(fetchPath)

	fetchFile, err := os.Create(fetchPath)
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	if err := v.GetSnapshot(name, fetchFile); err != nil {
		fetchFile.Close()
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	if err := fetchFile.Close(); err != nil {
		return fmt.Errorf("closing download file: %w", err)
	}

	dbSource := fetchPath
	if strings.HasSuffix(name, ".age") {
		decPath, err := a.decryptSnapshot(fetchPath, passphrase)
		if err != nil {
			return err
		}
		defer os.Remove(decPath)
		dbSource = decPath
	}

	dbPath := filepath.Join(a.cfg.Database.DataDir, "journal.db")

	// Release the database file before swapping it out.
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing store before restore: %w", err)
	}

	if _, err := os.Stat(dbPath); err == nil {
		backupPath := dbPath + ".bak-" + a.clock.Now().UTC().Format("20060102T150405Z")
		if err := os.Rename(dbPath, backupPath); err != nil {
			return fmt.Errorf("backing up current database: %w", err)
		}
		a.logger.Info("previous database kept", "path", backupPath)
	}

	if err := copyFile(dbSource, dbPath); err != nil {
		return fmt.Errorf("installing restored database: %w", err)
	}

	a.logger.Info("snapshot restored", "name", name)
	return nil
}

func (a *App) encryptSnapshot(srcPath string) (string, error) {
	encPath, err := tempPath("daybook-export-*.age")
	if err != nil {
		return "", err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening snapshot: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(encPath)
	if err != nil {
		return "", fmt.Errorf("creating encrypted snapshot: %w", err)
	}
	defer dst.Close()

	if err := a.encryptor.Encrypt(src, dst); err != nil {
		os.Remove(encPath)
		return "", fmt.Errorf("encrypting snapshot: %w", err)
	}
	return encPath, nil
}

func (a *App) decryptSnapshot(srcPath, passphrase string) (string, error) {
	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return "", fmt.Errorf("unlocking private key: %w", err)
	}

	decPath, err := tempPath("daybook-restore-*.db")
	if err != nil {
		return "", err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening encrypted snapshot: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(decPath)
	if err != nil {
		return "", fmt.Errorf("creating decrypted snapshot: %w", err)
	}
	defer dst.Close()

	if err := dc.Decrypt(src, dst); err != nil {
		os.Remove(decPath)
		return "", fmt.Errorf("decrypting snapshot: %w", err)
	}
	return decPath, nil
}

// openVault constructs the configured vault backend. Vaults are opened on
// demand so commands that never export stay entirely local.
func (a *App) openVault() (vault.Vault, error) {
	if len(a.cfg.Vaults) == 0 {
		return nil, fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(a.cfg.Vaults[0])
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	return v, nil
}

// tempPath reserves a unique temp file name and removes the file itself, so
// callers that need a fresh path (VACUUM INTO refuses to overwrite) can use it.
func tempPath(pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)
	return path, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
