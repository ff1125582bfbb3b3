package ingest

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pressle-logger/utils"
)

// SimulatedDevice stands in for the sensor board on the serial link. It
// follows the firmware protocol: telemetry streams only while recording,
// and start/stop commands are answered with the header, legacy tokens and
// events the board prints.
type SimulatedDevice struct {
	readTimeout time.Duration
	interval    time.Duration
	started     time.Time
	now         func() time.Time

	mu         sync.Mutex
	rng        *rand.Rand
	in         []byte
	out        bytes.Buffer
	recording  bool
	closed     bool
	lastSample time.Time
	step       float64
	reps       int

	produced uint64
}

func NewSimulatedDevice(cfg utils.SimulationConfig, readTimeout time.Duration) *SimulatedDevice {
	rate := cfg.SampleRateHz
	if rate <= 0 {
		rate = 20
	}
	if readTimeout <= 0 {
		readTimeout = time.Second
	}
	d := &SimulatedDevice{
		readTimeout: readTimeout,
		interval:    time.Second / time.Duration(rate),
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	d.started = d.now()
	d.out.WriteString("Pressle sensor logger\r\nType: start / stop\r\n")
	utils.L().Info("simulated device ready  (rate=%dHz)", rate)
	return d
}

// Read behaves like a serial port with a read timeout: it returns
// whatever output is pending, or (0, nil) once the timeout passes with
// nothing to send.
func (d *SimulatedDevice) Read(p []byte) (int, error) {
	deadline := time.Now().Add(d.readTimeout)
	poll := max(min(d.interval/4, 10*time.Millisecond), time.Millisecond)
	for {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return 0, io.EOF
		}
		if d.out.Len() > 0 {
			n, _ := d.out.Read(p)
			d.mu.Unlock()
			return n, nil
		}
		if d.recording && d.now().Sub(d.lastSample) >= d.interval {
			d.emitSample()
			d.mu.Unlock()
			continue
		}
		d.mu.Unlock()

		if !time.Now().Before(deadline) {
			return 0, nil
		}
		time.Sleep(poll)
	}
}

// Write accepts newline-terminated commands, matched case-insensitively.
func (d *SimulatedDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	d.in = append(d.in, p...)
	for {
		i := bytes.IndexByte(d.in, '\n')
		if i < 0 {
			break
		}
		cmd := strings.TrimSpace(string(d.in[:i]))
		d.in = d.in[i+1:]
		d.handleCommand(cmd)
	}
	return len(p), nil
}

func (d *SimulatedDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Produced returns the number of telemetry lines emitted.
func (d *SimulatedDevice) Produced() uint64 {
	return atomic.LoadUint64(&d.produced)
}

func (d *SimulatedDevice) millis() int64 {
	return d.now().Sub(d.started).Milliseconds()
}

func (d *SimulatedDevice) handleCommand(cmd string) {
	switch {
	case strings.EqualFold(cmd, "start"):
		d.recording = true
		d.reps = 0
		d.lastSample = time.Time{}
		d.out.WriteString("timestamp_ms,tof_mm,ax,ay,az,gx,gy,gz\r\n")
		d.out.WriteString("RECORDING\r\n")
		fmt.Fprintf(&d.out, "EVENT,%d,RECORDING_START,recording\r\n", d.millis())
	case strings.EqualFold(cmd, "stop"):
		d.recording = false
		d.out.WriteString("STOPPED\r\n")
		fmt.Fprintf(&d.out, "EVENT,%d,SESSION_STOPPED_USER,%d,idle\r\n", d.millis(), d.reps)
	}
}

// emitSample writes one telemetry line: a push-up like distance swing
// plus small motion noise.
func (d *SimulatedDevice) emitSample() {
	d.lastSample = d.now()
	prev := math.Sin(d.step)
	d.step += 0.15
	cur := math.Sin(d.step)
	if prev < 0 && cur >= 0 {
		d.reps++
		fmt.Fprintf(&d.out, "EVENT,%d,REP,%d,recording\r\n", d.millis(), d.reps)
	}

	tof := 250 + 150*cur + d.rng.Float64()*4
	fmt.Fprintf(&d.out, "%d,%d,%.4f,%.4f,%.4f,%.4f,%.4f,%.4f\r\n",
		d.millis(),
		int(tof),
		0.02*math.Sin(d.step)+d.rng.Float64()*0.005,
		0.01*math.Cos(d.step)+d.rng.Float64()*0.005,
		1.0+0.1*cur+d.rng.Float64()*0.02,
		12*math.Cos(d.step)+d.rng.Float64()*0.5,
		d.rng.Float64()*0.5,
		d.rng.Float64()*0.2,
	)
	atomic.AddUint64(&d.produced, 1)
}
