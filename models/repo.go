package models

import "encoding/json"

// RepoInfo is the mod-distribution repository's current metadata. The size
// field arrives as either a number or a numeric string depending on server
// version, hence json.Number.
type RepoInfo struct {
	Revision       int         `json:"revision"`
	TotalFilesSize json.Number `json:"totalFilesSize"`
}

// SizeGB returns the repository size in gigabytes.
func (r RepoInfo) SizeGB() float64 {
	size, err := r.TotalFilesSize.Float64()
	if err != nil {
		return 0
	}
	return size / 1_000_000_000
}

// RepoChangelog is one revision's worth of addon churn.
type RepoChangelog struct {
	Revision      int      `json:"revision"`
	NewAddons     []string `json:"newAddons"`
	DeletedAddons []string `json:"deletedAddons"`
	UpdatedAddons []string `json:"updatedAddons"`
}

// RepoChangelogList is the changelog endpoint's envelope.
type RepoChangelogList struct {
	List []RepoChangelog `json:"list"`
}

// Workshop API shapes. Children with a collection file type are themselves
// collections and get expanded a level deeper.

const WorkshopFileTypeCollection = 2

type WorkshopChild struct {
	PublishedFileID string `json:"publishedfileid"`
	SortOrder       int    `json:"sortorder"`
	FileType        int    `json:"filetype"`
}

type WorkshopCollection struct {
	PublishedFileID string          `json:"publishedfileid"`
	Result          int             `json:"result"`
	Children        []WorkshopChild `json:"children"`
}

type WorkshopCollectionResponse struct {
	Response struct {
		Result            int                  `json:"result"`
		ResultCount       int                  `json:"resultcount"`
		CollectionDetails []WorkshopCollection `json:"collectiondetails"`
	} `json:"response"`
}

type WorkshopFile struct {
	PublishedFileID string `json:"publishedfileid"`
	Title           string `json:"title"`
	TimeUpdated     int64  `json:"time_updated"`
}

type WorkshopFileResponse struct {
	Response struct {
		Result               int            `json:"result"`
		ResultCount          int            `json:"resultcount"`
		PublishedFileDetails []WorkshopFile `json:"publishedfiledetails"`
	} `json:"response"`
}
