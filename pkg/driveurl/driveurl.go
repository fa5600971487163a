// Package driveurl rewrites Google Drive share links and bare file ids into
// the direct-thumbnail form that renders without further redirection.
package driveurl

import "strings"

const thumbnailPrefix = "https://drive.google.com/thumbnail?id="

const thumbnailSize = "&sz=w400-h400"

// Normalize converts raw into a direct-thumbnail URL when it is recognizably
// a Drive file id or share link, and returns it unchanged otherwise. Blank
// input passes through; substituting a placeholder is the caller's decision.
// Normalize never fails.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}

	// Bare file id: the spreadsheet sometimes carries just the Drive id.
	if len(raw) > 20 && len(raw) < 50 && !strings.Contains(raw, "http") && !strings.Contains(raw, ".") {
		return thumbnailPrefix + raw + thumbnailSize
	}

	if !strings.Contains(raw, "drive.google.com") {
		return raw
	}
	if strings.HasPrefix(raw, thumbnailPrefix) {
		return raw
	}

	// Known share link shapes:
	//   https://drive.google.com/uc?export=view&id=FILE_ID
	//   https://drive.google.com/open?id=FILE_ID
	//   https://drive.google.com/file/d/FILE_ID/view
	var fileID string
	switch {
	case strings.Contains(raw, "id="):
		fileID = strings.SplitN(strings.SplitN(raw, "id=", 2)[1], "&", 2)[0]
	case strings.Contains(raw, "/file/d/"):
		fileID = strings.SplitN(strings.SplitN(raw, "/file/d/", 2)[1], "/", 2)[0]
	}
	if fileID == "" {
		return raw
	}
	return thumbnailPrefix + fileID + thumbnailSize
}
