// Package watcher reports new music files appearing under the Nicotine+
// download directory, including in subdirectories created mid-download.
package watcher
