package detect

import "fmt"

// Channel is a contiguous spectral region above the squelch.
//
// Frequencies are in Hz relative to the mixed-down stream, over [0, fs).
// S0, N0 and SNR are in dB.
type Channel struct {
	Fc  float64 `yaml:"fc"`
	Bw  float64 `yaml:"bw"`
	FLo float64 `yaml:"f_lo"`
	FHi float64 `yaml:"f_hi"`

	S0  float64 `yaml:"s0"`
	N0  float64 `yaml:"n0"`
	SNR float64 `yaml:"snr"`

	Age     int `yaml:"age"`     // collect cycles survived
	Present int `yaml:"present"` // observations merged since creation

	// Ft is the offset subtracted from Fc to express it in the input stream.
	Ft float64 `yaml:"ft"`
}

// Contains reports whether f lies within [Fc-Bw/2, Fc+Bw/2].
func (c Channel) Contains(f float64) bool {
	return f >= c.Fc-0.5*c.Bw && f <= c.Fc+0.5*c.Bw
}

// ValidFunc decides whether a tracked channel is reliable enough to report.
type ValidFunc func(Channel) bool

const minValidAge = 10

// DefaultValidChannel accepts channels that have lived a few cycles and were
// observed in at least half of them.
func DefaultValidChannel(c Channel) bool {
	return c.Age >= minValidAge && 2*c.Present >= c.Age
}

// ChannelList tracks channels across detection cycles.
type ChannelList struct {
	chans []*Channel
	max   int
}

// NewChannelList returns an empty list. limit caps the number of records;
// zero means no cap.
func NewChannelList(limit int) *ChannelList {
	return &ChannelList{max: limit}
}

// Len returns the number of tracked channels.
func (l *ChannelList) Len() int { return len(l.chans) }

func (l *ChannelList) lookup(fc float64, valid ValidFunc) *Channel {
	for _, c := range l.chans {
		if !c.Contains(fc) {
			continue
		}
		if valid == nil || valid(*c) {
			return c
		}
	}
	return nil
}

// Lookup returns the first channel containing fc.
func (l *ChannelList) Lookup(fc float64) (Channel, bool) {
	if c := l.lookup(fc, nil); c != nil {
		return *c, true
	}
	return Channel{}, false
}

// LookupValid returns the first channel containing fc that valid accepts.
func (l *ChannelList) LookupValid(fc float64, valid ValidFunc) (Channel, bool) {
	if valid == nil {
		valid = DefaultValidChannel
	}
	if c := l.lookup(fc, valid); c != nil {
		return *c, true
	}
	return Channel{}, false
}

// Assert merges an observation into the channel containing its center, or
// starts tracking a new one.
func (l *ChannelList) Assert(obs Channel) error {
	c := l.lookup(obs.Fc, nil)
	if c == nil {
		if l.max > 0 && len(l.chans) >= l.max {
			return fmt.Errorf("%w: channel list full (%d)", ErrAllocation, l.max)
		}

		c = &Channel{
			Fc:  obs.Fc,
			Bw:  obs.Bw,
			FLo: obs.FLo,
			FHi: obs.FHi,
			Ft:  obs.Ft,
		}
		l.chans = append(l.chans, c)
	} else {
		c.Present++

		// Running mean over the channel's lifetime.
		k := 1 / float64(c.Age+1)
		c.Bw += k * (obs.Bw - c.Bw)
		c.FLo += k * (obs.FLo - c.FLo)
		c.FHi += k * (obs.FHi - c.FHi)
		c.Fc += k * (obs.Fc - c.Fc)
	}

	c.S0 = obs.S0
	c.N0 = obs.N0
	c.SNR = obs.S0 - obs.N0

	return nil
}

// Collect ages every channel and drops those absent for more than half of
// their lifetime.
func (l *ChannelList) Collect() {
	kept := l.chans[:0]
	for _, c := range l.chans {
		stale := c.Age > 2*c.Present
		c.Age++
		if !stale {
			kept = append(kept, c)
		}
	}

	clear(l.chans[len(kept):])
	l.chans = kept
}

// Clear drops every channel.
func (l *ChannelList) Clear() {
	clear(l.chans)
	l.chans = l.chans[:0]
}

// Channels returns a snapshot of the tracked channels.
func (l *ChannelList) Channels() []Channel {
	out := make([]Channel, len(l.chans))
	for i, c := range l.chans {
		out[i] = *c
	}
	return out
}
