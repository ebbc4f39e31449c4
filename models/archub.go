package models

// HubMap is one terrain entry from the mission hub.
type HubMap struct {
	ClassName   string `json:"class_name"`
	DisplayName string `json:"display_name"`
}

// HubMission is an upcoming mission as listed by the hub's operations feed.
type HubMission struct {
	ID            int    `json:"id"`
	DisplayName   string `json:"display_name"`
	Mode          string `json:"mode"`
	User          string `json:"user"`
	HasMaintainer bool   `json:"hasMaintainer"`
	Thumbnail     string `json:"thumbnail"`
}
