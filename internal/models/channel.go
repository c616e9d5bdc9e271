package models

import "slices"

// Channel holds the fields shared by the player's channel and rival channels
type Channel struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Handle       string        `json:"handle"`
	Avatar       string        `json:"avatar"`
	Banner       string        `json:"banner"`
	Bio          string        `json:"bio"`
	IsVerified   bool          `json:"isVerified"`
	Subscribers  int64         `json:"subscribers"`
	TotalViews   int64         `json:"totalViews"`
	ContentItems []ContentItem `json:"contentItems"`
	Playlists    []Playlist    `json:"playlists"`
	Posts        []Post        `json:"posts"`
}

// FindContent returns a pointer into ContentItems for the given ID, or nil
func (c *Channel) FindContent(id string) *ContentItem {
	for i := range c.ContentItems {
		if c.ContentItems[i].ID == id {
			return &c.ContentItems[i]
		}
	}
	return nil
}

// LiveContent returns the items visible to viewers, in creation order
func (c *Channel) LiveContent() []ContentItem {
	live := make([]ContentItem, 0, len(c.ContentItems))
	for _, item := range c.ContentItems {
		if item.IsLive() {
			live = append(live, item)
		}
	}
	return live
}

// SumLiveViews returns the total current views across live items
func (c *Channel) SumLiveViews() int64 {
	var total int64
	for _, item := range c.ContentItems {
		if item.IsLive() {
			total += item.CurrentViews
		}
	}
	return total
}

// SumLiveLikes returns the total current likes across live items
func (c *Channel) SumLiveLikes() int64 {
	var total int64
	for _, item := range c.ContentItems {
		if item.IsLive() {
			total += item.CurrentLikes
		}
	}
	return total
}

// Clone returns a copy whose collections can be mutated independently
func (c Channel) Clone() Channel {
	if c.ContentItems != nil {
		items := make([]ContentItem, len(c.ContentItems))
		for i, item := range c.ContentItems {
			items[i] = item.Clone()
		}
		c.ContentItems = items
	}
	if c.Playlists != nil {
		playlists := make([]Playlist, len(c.Playlists))
		for i, p := range c.Playlists {
			p.ContentIDs = slices.Clone(p.ContentIDs)
			playlists[i] = p
		}
		c.Playlists = playlists
	}
	c.Posts = slices.Clone(c.Posts)
	return c
}

// AnalyticsSnapshot is one day's aggregate record in the player's history
type AnalyticsSnapshot struct {
	Date        string `json:"date"` // YYYY-MM-DD (UTC)
	Views       int64  `json:"views"`
	Subscribers int64  `json:"subscribers"`
	Likes       int64  `json:"likes"`
}

// PlayerChannel is the single channel controlled by the player
type PlayerChannel struct {
	Channel
	Money            int64               `json:"money"`
	HasAdvertised    bool                `json:"hasAdvertised"`
	SkillLevel       int                 `json:"skillLevel"`
	MilestoneIDs     []string            `json:"milestoneIds"`
	AnalyticsHistory []AnalyticsSnapshot `json:"analyticsHistory"`
	HomepageLayout   []string            `json:"homepageLayout"`
}

// HasMilestone checks if a milestone ID has already been achieved
func (p *PlayerChannel) HasMilestone(id string) bool {
	return slices.Contains(p.MilestoneIDs, id)
}

// LastSnapshot returns the most recent analytics history entry, or nil
func (p *PlayerChannel) LastSnapshot() *AnalyticsSnapshot {
	if len(p.AnalyticsHistory) == 0 {
		return nil
	}
	return &p.AnalyticsHistory[len(p.AnalyticsHistory)-1]
}

// Clone returns a deep copy of the player channel
func (p PlayerChannel) Clone() PlayerChannel {
	p.Channel = p.Channel.Clone()
	p.MilestoneIDs = slices.Clone(p.MilestoneIDs)
	p.AnalyticsHistory = slices.Clone(p.AnalyticsHistory)
	p.HomepageLayout = slices.Clone(p.HomepageLayout)
	return p
}

// OtherChannel is a non-interactive rival channel
type OtherChannel struct {
	Channel
	// Pinned channels keep fixed counters and skip background growth
	Pinned bool `json:"pinned,omitempty"`
}

// Clone returns a deep copy of the rival channel
func (o OtherChannel) Clone() OtherChannel {
	o.Channel = o.Channel.Clone()
	return o
}
