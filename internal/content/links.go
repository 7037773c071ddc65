package content

import "strings"

// PlaceholderImage is shown when a project has no usable image.
const PlaceholderImage = "https://placehold.co/600x400"

// ExternalLink makes a user-entered link absolute. Empty links become "#".
func ExternalLink(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return "#"
	}
	if strings.HasPrefix(url, "http") {
		return url
	}
	return "https://" + url
}

// AssetBase derives the host that serves uploaded files from the API base URL,
// which is the API URL without its version prefix.
func AssetBase(apiURL string) string {
	return strings.TrimSuffix(strings.Replace(apiURL, "/api/v1", "", 1), "/")
}

// ImageURL resolves a project image against the asset base.
func ImageURL(assetBase, image string) string {
	switch {
	case image == "":
		return PlaceholderImage
	case strings.HasPrefix(image, "http"):
		return image
	case strings.HasPrefix(image, "/"):
		return assetBase + image
	default:
		return assetBase + "/" + image
	}
}
