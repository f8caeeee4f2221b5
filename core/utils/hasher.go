//go:build linux

package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"rawstat/core/stat"
)

// MD5Hash returns the hex MD5 of the regular file at filePath. The opened
// file must still be inode ino, otherwise the entry was replaced after it was
// stat'ed and the hash would describe a different file.
// Input:
// - filePath: the absolute path to the file
// - ino: the inode the caller stat'ed
// Output:
// - hash: the MD5 hash of the file
func MD5Hash(filePath string, ino uint64) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := stat.Fstat(int(file.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to fstat %s: %w", filePath, err)
	}
	if info.Inode() != ino {
		return "", fmt.Errorf("file %s changed while hashing: inode %d, expect %d", filePath, info.Inode(), ino)
	}

	hash := md5.New()
	if _, err = io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
