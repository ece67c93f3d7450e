// Package ytdl wraps the yt-dlp binary (through go-ytdlp) for the three calls
// the pipeline makes: reading source metadata, searching, and downloading.
//
// All invocations go through a Runner so tests can replace the binary with
// canned JSON.
package ytdl
