package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const releaseURL = "https://api.github.com/repos/finderworks/viewfinder/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries GitHub for the latest release.
// Returns the new version tag and its URL if an update is available,
// empty strings otherwise.
func CheckForUpdates(currentVersion string) (string, string, error) {
	// Set a short timeout to avoid blocking startup for too long
	client := http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(releaseURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")

	if latest != "" && latest != current && current != "dev" {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}
