package phase

import (
	"math"
)

// Schedule plays one trigger through the steps and sends the resulting
// notes, note-offs and control changes to host. It returns the number of
// note-ons sent.
//
// Every step advances the cursor by the absolute step duration, whether it
// played, rested or lost its chance roll. Onsets never fall before the
// trigger.
func Schedule(trigger Event, steps []ScoreElement, p Pattern, s Settings, src RandomSource, host Host) int {
	if len(steps) == 0 {
		return 0
	}

	length := s.SequenceLength
	if length <= 0 {
		length = len(steps)
	}
	speedFactor := s.speedFactor()
	cursor := trigger.BeatPos
	sent := 0

	for index := 0; index < length; index++ {
		step := steps[index%len(steps)]

		stepDuration := 1.0
		if step.Duration.IsSet() {
			stepDuration = step.Duration.Resolve()
		}
		stepDuration *= speedFactor

		play := true
		if len(p.Chances) > 0 && src.Float64() >= p.Chances[index%len(p.Chances)] {
			play = false
		}

		if stepDuration > 0 && play {
			eventDuration := stepDuration
			if len(p.Gates) > 0 {
				eventDuration *= p.Gates[index%len(p.Gates)]
			}

			stepTrigger := trigger
			stepTrigger.Pitch = trigger.Pitch + s.Transpose
			if len(p.Pitches) > 0 {
				stepTrigger.Pitch += p.Pitches[index%len(p.Pitches)]
			}

			for _, ev := range step.Expand(stepTrigger) {
				ev.BeatPos = math.Max(cursor+RandomDelta(src, s.HumanizeBeatPos), trigger.BeatPos)

				velocity := float64(ev.Velocity)
				if len(p.Velocities) > 0 {
					velocity = p.Velocities[index%len(p.Velocities)]
				}
				velocity += RandomDelta(src, s.HumanizeVelocity)
				velocity = shapeVelocity(velocity, s, host)

				for _, lane := range p.ControlLanes {
					if len(lane.Steps) == 0 {
						continue
					}
					host.Send(Event{
						Kind:    EventControlChange,
						Channel: ev.Channel,
						Number:  lane.Number,
						Value:   host.Normalize(lane.Steps[index%len(lane.Steps)]),
						BeatPos: ev.BeatPos,
					})
				}

				ev.Velocity = host.Normalize(velocity)
				host.Send(ev)
				sent++

				host.Send(Event{
					Kind:    EventNoteOff,
					Channel: ev.Channel,
					Pitch:   ev.Pitch,
					BeatPos: ev.BeatPos + eventDuration,
				})
			}
		}

		cursor += math.Abs(stepDuration)
	}
	return sent
}

// shapeVelocity applies the clamp settings. Normalization maps the
// velocity's position in 0-127 linearly into the clamp range, which keeps
// crescendos; otherwise the velocity is clipped to the range.
func shapeVelocity(velocity float64, s Settings, host Host) float64 {
	if !s.ClampVelocity {
		return velocity
	}
	if s.NormalizeVelocity {
		normal := float64(host.Normalize(velocity)) / 127.0
		return s.MinVelocity + (s.MaxVelocity-s.MinVelocity)*normal
	}
	return math.Min(s.MaxVelocity, math.Max(s.MinVelocity, velocity))
}
