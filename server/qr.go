package main

import (
	"net/http"
	"strconv"

	"github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMaxSize     = 1024
)

// joinURL is the page players and spectators open
func joinURL(publicURL string, r *http.Request) string {
	if publicURL != "" {
		return publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

// qrHandler serves the join URL as a PNG QR code
func qrHandler(publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := qrDefaultSize
		if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s > 0 {
			size = min(s, qrMaxSize)
		}
		png, err := qrcode.Encode(joinURL(publicURL, r), qrcode.Medium, size)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	}
}
