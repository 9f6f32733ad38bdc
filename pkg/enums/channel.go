package enums

import (
	"fmt"
	"strings"
)

// Channel is the sales channel a store trades through.
type Channel string

const (
	ChannelApp         Channel = "App"
	ChannelWeb         Channel = "Web"
	ChannelMarketplace Channel = "Marketplace"
)

var validChannels = []Channel{
	ChannelApp,
	ChannelWeb,
	ChannelMarketplace,
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Channel.
func (c Channel) IsValid() bool {
	for _, candidate := range validChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// Channels returns the known channels in display order.
func Channels() []Channel {
	out := make([]Channel, len(validChannels))
	copy(out, validChannels)
	return out
}

// ParseChannel converts raw input into a Channel after trimming whitespace.
func ParseChannel(value string) (Channel, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validChannels {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel %q", value)
}
