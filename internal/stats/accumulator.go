package stats

import (
	"fmt"
	"image"
)

// MaxChannels is the number of color channels tracked separately.
const MaxChannels = 3

// Accumulator tracks the pooled statistics of every sample plus one Running
// per channel.
type Accumulator struct {
	Global   Running
	Channels [MaxChannels]Running
}

// Update adds one sample to the global scope and to the given channel.
func (a *Accumulator) Update(value float64, channel int) {
	a.Global.Push(value)
	a.Channels[channel].Push(value)
}

// AddImage feeds every pixel of img into the accumulator. Gray images update
// channel 0; RGBA images update channels 0-2 (red, green, blue) and skip alpha.
func (a *Accumulator) AddImage(img image.Image) error {
	switch m := img.(type) {
	case *image.Gray:
		b := m.Rect
		for y := 0; y < b.Dy(); y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+b.Dx()]
			for _, v := range row {
				a.Update(float64(v), 0)
			}
		}
	case *image.RGBA:
		b := m.Rect
		for y := 0; y < b.Dy(); y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+4*b.Dx()]
			for i := 0; i < len(row); i += 4 {
				a.Update(float64(row[i]), 0)
				a.Update(float64(row[i+1]), 1)
				a.Update(float64(row[i+2]), 2)
			}
		}
	default:
		return fmt.Errorf("stats: unsupported image type %T", img)
	}
	return nil
}

// Merge folds other into a.
func (a *Accumulator) Merge(other *Accumulator) {
	a.Global.Merge(other.Global)
	for i := range a.Channels {
		a.Channels[i].Merge(other.Channels[i])
	}
}

// Scope is a reporting snapshot of one Running.
type Scope struct {
	Name   string
	Count  int64
	Mean   float64
	StdDev float64
	// Ready is false while fewer than two samples were seen; StdDev is then 0
	// and should be reported as unavailable.
	Ready bool
}

// Summary is a snapshot of an Accumulator.
type Summary struct {
	Global   Scope
	Channels []Scope
}

// Summary returns the current statistics. Channels that never received a
// sample are omitted. A run that only saw channel 0 is reported as gray.
func (a *Accumulator) Summary() Summary {
	s := Summary{Global: snapshot("all", a.Global)}
	colored := a.Channels[1].Count > 0 || a.Channels[2].Count > 0
	for i, ch := range a.Channels {
		if ch.Count == 0 {
			continue
		}
		s.Channels = append(s.Channels, snapshot(ChannelName(i, colored), ch))
	}
	return s
}

// ChannelName names channel i for reports.
func ChannelName(i int, colored bool) string {
	if !colored && i == 0 {
		return "gray"
	}
	switch i {
	case 0:
		return "red"
	case 1:
		return "green"
	case 2:
		return "blue"
	default:
		return fmt.Sprintf("channel%d", i)
	}
}

func snapshot(name string, r Running) Scope {
	sd, ok := r.StdDev()
	return Scope{Name: name, Count: r.Count, Mean: r.Mean, StdDev: sd, Ready: ok}
}
