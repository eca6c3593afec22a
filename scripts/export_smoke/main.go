// Command export_smoke exercises the export endpoints of a running instance
// and saves the artifacts locally so a reviewer can open them. It exits
// non-zero when any requested export fails, which makes it usable as a
// post-deploy check.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var reportKinds = []string{
	"vehicles",
	"users",
	"maintenances",
	"vehicles_maintenance",
	"drivers_vehicles",
}

func main() {
	var (
		base     string
		token    string
		outDir   string
		driverID string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api", "API base URL including prefix")
	flag.StringVar(&token, "token", os.Getenv("FLEET_PANEL_TOKEN"), "Bearer token")
	flag.StringVar(&outDir, "out", "smoke-artifacts", "Directory for downloaded artifacts")
	flag.StringVar(&driverID, "driver", "", "Driver ID for the profile document (skipped when empty)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	if token == "" {
		log.Fatal("a bearer token is required (flag -token or FLEET_PANEL_TOKEN)")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	failures := 0

	for _, kind := range reportKinds {
		url := fmt.Sprintf("%s/reports/%s/export", strings.TrimRight(base, "/"), kind)
		if err := download(client, token, url, outDir); err != nil {
			failures++
			fmt.Printf("[FAIL] %s: %v\n", kind, err)
			continue
		}
		fmt.Printf("[OK]   %s\n", kind)
	}

	if driverID != "" {
		url := fmt.Sprintf("%s/drivers/%s/profile", strings.TrimRight(base, "/"), driverID)
		if err := download(client, token, url, outDir); err != nil {
			failures++
			fmt.Printf("[FAIL] driver profile: %v\n", err)
		} else {
			fmt.Printf("[OK]   driver profile\n")
		}
	}

	if failures > 0 {
		fmt.Printf("%d export(s) failed\n", failures)
		os.Exit(1)
	}
}

func download(client *http.Client, token, url, outDir string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filepath.Base(url)
	}
	out, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
