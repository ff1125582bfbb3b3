package views

import "pressle-logger/models"

// WindowSize is the number of samples kept for the live display.
const WindowSize = 200

// Channel indexes one of the windowed series.
type Channel int

const (
	ChannelTime Channel = iota
	ChannelDistance
	ChannelAccelX
	ChannelAccelY
	ChannelAccelZ
	ChannelGyroX
	ChannelGyroY
	ChannelGyroZ
	NumChannels
)

var channelNames = [...]string{"t", "tof", "ax", "ay", "az", "gx", "gy", "gz"}

func (c Channel) String() string {
	if c >= 0 && c < NumChannels {
		return channelNames[c]
	}
	return "unknown"
}

// WindowBuffer is a set of fixed-capacity ring buffers, one per channel.
// All channels share one head and one length, so they always hold the
// same number of samples.
type WindowBuffer struct {
	capacity int
	head     int // index of the oldest element
	length   int
	series   [NumChannels][]float64
}

func NewWindowBuffer(capacity int) *WindowBuffer {
	if capacity <= 0 {
		capacity = WindowSize
	}
	w := &WindowBuffer{capacity: capacity}
	for i := range w.series {
		w.series[i] = make([]float64, capacity)
	}
	return w
}

// Append adds one sample to every channel, evicting the oldest sample
// once the window is full.
func (w *WindowBuffer) Append(s models.TelemetrySample) {
	vals := [NumChannels]float64{
		s.DeviceTimeS, s.DistanceMM,
		s.AccelX, s.AccelY, s.AccelZ,
		s.GyroX, s.GyroY, s.GyroZ,
	}

	var slot int
	if w.length < w.capacity {
		slot = (w.head + w.length) % w.capacity
		w.length++
	} else {
		slot = w.head
		w.head = (w.head + 1) % w.capacity
	}
	for ch := range vals {
		w.series[ch][slot] = vals[ch]
	}
}

// Len returns the number of samples held, identical for every channel.
func (w *WindowBuffer) Len() int {
	return w.length
}

// Cap returns the window capacity.
func (w *WindowBuffer) Cap() int {
	return w.capacity
}

// Series returns a copy of one channel, oldest first.
func (w *WindowBuffer) Series(ch Channel) []float64 {
	out := make([]float64, w.length)
	if ch < 0 || ch >= NumChannels {
		return out[:0]
	}
	src := w.series[ch]
	for i := 0; i < w.length; i++ {
		out[i] = src[(w.head+i)%w.capacity]
	}
	return out
}

// Latest returns the newest value of every channel.
func (w *WindowBuffer) Latest() ([NumChannels]float64, bool) {
	var out [NumChannels]float64
	if w.length == 0 {
		return out, false
	}
	idx := (w.head + w.length - 1) % w.capacity
	for ch := range out {
		out[ch] = w.series[ch][idx]
	}
	return out, true
}
