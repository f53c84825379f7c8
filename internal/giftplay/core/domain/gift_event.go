package domain

import "time"

// GiftFormat is the rendering format of a gift animation asset.
type GiftFormat string

const (
	FormatSVGA   GiftFormat = "svga"
	FormatMP4    GiftFormat = "mp4"
	FormatLottie GiftFormat = "lottie"
	FormatStatic GiftFormat = "static"
)

// RenderZone is the screen placement class for a gift animation.
type RenderZone string

const (
	ZoneFullscreen RenderZone = "fullscreen"
	ZoneBanner     RenderZone = "banner"
	ZoneTray       RenderZone = "tray"
)

// GiftEvent is one visual gift occurrence inside a live room.
//
// Quantity is only ever amended by the combo aggregator before the event is
// handed to the queue; after that the event is treated as immutable.
type GiftEvent struct {
	ID              string
	GiftName        string
	IconRef         string
	Format          GiftFormat
	RenderZone      RenderZone
	SenderName      string
	SenderAvatarRef string
	RecipientName   string // optional
	Quantity        int64
	UnitValue       int64
	PlannedDuration time.Duration
}

// TotalValue returns UnitValue x Quantity.
func (e *GiftEvent) TotalValue() int64 {
	return e.UnitValue * e.Quantity
}

// ValidFormat reports whether f is one of the supported rendering formats.
func ValidFormat(f GiftFormat) bool {
	switch f {
	case FormatSVGA, FormatMP4, FormatLottie, FormatStatic:
		return true
	}
	return false
}

// ValidRenderZone reports whether z is a known screen placement class.
func ValidRenderZone(z RenderZone) bool {
	switch z {
	case ZoneFullscreen, ZoneBanner, ZoneTray:
		return true
	}
	return false
}
