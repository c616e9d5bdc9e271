// Package models defines the serializable game-state document shared by every engine component.
package models

import "slices"

// GameState is the whole simulation document; it is the unit of persistence
type GameState struct {
	Channel       PlayerChannel  `json:"channel"`
	OtherChannels []OtherChannel `json:"otherChannels"`
	IsGameStarted bool           `json:"isGameStarted"`
}

// Clone returns a deep copy safe to mutate without affecting the receiver
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	out := &GameState{
		Channel:       g.Channel.Clone(),
		IsGameStarted: g.IsGameStarted,
	}
	if g.OtherChannels != nil {
		out.OtherChannels = make([]OtherChannel, len(g.OtherChannels))
		for i, other := range g.OtherChannels {
			out.OtherChannels[i] = other.Clone()
		}
	}
	return out
}

// ContentOwner identifies which channel holds a content item
type ContentOwner struct {
	ChannelID string
	IsPlayer  bool
}

// FindContent locates a content item on any channel
func (g *GameState) FindContent(id string) (*ContentItem, ContentOwner, bool) {
	if item := g.Channel.FindContent(id); item != nil {
		return item, ContentOwner{ChannelID: g.Channel.ID, IsPlayer: true}, true
	}
	for i := range g.OtherChannels {
		if item := g.OtherChannels[i].FindContent(id); item != nil {
			return item, ContentOwner{ChannelID: g.OtherChannels[i].ID}, true
		}
	}
	return nil, ContentOwner{}, false
}

// LiveContentIDs returns the IDs of every live item across all channels
func (g *GameState) LiveContentIDs() []string {
	var ids []string
	collect := func(c *Channel) {
		for _, item := range c.ContentItems {
			if item.IsLive() {
				ids = append(ids, item.ID)
			}
		}
	}
	collect(&g.Channel.Channel)
	for i := range g.OtherChannels {
		collect(&g.OtherChannels[i].Channel)
	}
	return slices.Clip(ids)
}
