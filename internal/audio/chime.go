package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// decayFloor is the gain an exponential decay ends at.
const decayFloor = 0.001

// Note is one sine partial of a chime.
type Note struct {
	Frequency float64
	Delay     time.Duration
	Peak      float64
	Attack    time.Duration
	// Decay is measured from the note start, not from the end of Attack.
	Decay time.Duration
}

// WorkCompleteChime is the ascending arpeggio played when work ends.
var WorkCompleteChime = []Note{
	{Frequency: 523.25, Delay: 0, Peak: 0.12, Attack: 50 * time.Millisecond, Decay: 2500 * time.Millisecond},
	{Frequency: 659.25, Delay: 300 * time.Millisecond, Peak: 0.12, Attack: 50 * time.Millisecond, Decay: 2500 * time.Millisecond},
	{Frequency: 783.99, Delay: 600 * time.Millisecond, Peak: 0.12, Attack: 50 * time.Millisecond, Decay: 2500 * time.Millisecond},
	{Frequency: 1046.5, Delay: 900 * time.Millisecond, Peak: 0.12, Attack: 50 * time.Millisecond, Decay: 2500 * time.Millisecond},
	{Frequency: 1046.5, Delay: 1200 * time.Millisecond, Peak: 0.06, Attack: 100 * time.Millisecond, Decay: 3 * time.Second},
}

// RestCompleteChime is the short phrase played when rest ends.
var RestCompleteChime = []Note{
	{Frequency: 783.99, Delay: 0, Peak: 0.15, Attack: 40 * time.Millisecond, Decay: 1500 * time.Millisecond},
	{Frequency: 659.25, Delay: 250 * time.Millisecond, Peak: 0.15, Attack: 40 * time.Millisecond, Decay: 1500 * time.Millisecond},
	{Frequency: 783.99, Delay: 500 * time.Millisecond, Peak: 0.15, Attack: 40 * time.Millisecond, Decay: 1500 * time.Millisecond},
	{Frequency: 1046.5, Delay: 750 * time.Millisecond, Peak: 0.15, Attack: 40 * time.Millisecond, Decay: 1500 * time.Millisecond},
}

// Envelope returns the gain of note at offset from its start: a linear
// attack to Peak followed by an exponential decay to decayFloor.
func Envelope(note Note, offset time.Duration) float64 {
	switch {
	case offset < 0 || offset >= note.Decay:
		return 0
	case offset < note.Attack:
		return note.Peak * float64(offset) / float64(note.Attack)
	}
	span := float64(note.Decay - note.Attack)
	if span <= 0 || note.Peak <= decayFloor {
		return note.Peak
	}
	progress := float64(offset-note.Attack) / span
	return note.Peak * math.Pow(decayFloor/note.Peak, progress)
}

// tone streams a single enveloped sine wave.
type tone struct {
	note       Note
	sampleRate beep.SampleRate
	position   int
	total      int
}

func newTone(note Note, sampleRate beep.SampleRate) *tone {
	return &tone{note: note, sampleRate: sampleRate, total: sampleRate.N(note.Decay)}
}

func (tone *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if tone.position >= tone.total {
		return 0, false
	}
	for i := range samples {
		if tone.position >= tone.total {
			break
		}
		offset := tone.sampleRate.D(tone.position)
		value := Envelope(tone.note, offset) * math.Sin(2*math.Pi*tone.note.Frequency*offset.Seconds())
		samples[i][0] = value
		samples[i][1] = value
		tone.position++
		n++
	}
	return n, true
}

func (tone *tone) Err() error {
	return nil
}

// Length returns how long notes take to play out.
func Length(notes []Note) time.Duration {
	var length time.Duration
	for _, note := range notes {
		if end := note.Delay + note.Decay; end > length {
			length = end
		}
	}
	return length
}

// Chime mixes notes into one finite streamer.
func Chime(notes []Note, sampleRate beep.SampleRate) beep.Streamer {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, note := range notes {
		streamers = append(streamers, beep.Seq(
			beep.Silence(sampleRate.N(note.Delay)),
			newTone(note, sampleRate),
		))
	}
	return beep.Take(sampleRate.N(Length(notes)), beep.Mix(streamers...))
}
