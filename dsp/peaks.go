package dsp

// Peak is one spectral peak surviving both the band-max and per-frame
// mean filter: its time in milliseconds (from the frame index and
// hop), its frequency in Hz (from the winning bin), and its
// magnitude.
type Peak struct {
	TimeMS int
	FreqHz int
	Mag    float64
}

// ExtractPeaks finds, for every frame and every fixed Hz band, the
// bin of maximum magnitude in that band, discards bands whose peak
// magnitude does not exceed 1.0 (the noise floor gate), then keeps
// only the per-frame peaks whose magnitude exceeds that frame's mean
// peak magnitude. sampleRate is the rate of the signal the frames
// were computed from — the current (post-downsample) rate, since bin
// index and hop index are both expressed against it.
func ExtractPeaks(frames []Frame, sampleRate, hop, numBins int, bands [][2]int) []Peak {
	var out []Peak

	type bandPeak struct {
		binFreq int
		mag     float64
	}

	for i, frame := range frames {
		var candidates []bandPeak

		for _, band := range bands {
			lo, hi := band[0], band[1]
			bestBin := -1
			bestMag := 0.0
			for j, mag := range frame {
				freq := j * sampleRate / numBins
				if freq < lo || freq >= hi {
					continue
				}
				if bestBin == -1 || mag > bestMag {
					bestBin = j
					bestMag = mag
				}
			}
			if bestBin == -1 || bestMag <= 1.0 {
				continue
			}
			candidates = append(candidates, bandPeak{binFreq: bestBin * sampleRate / numBins, mag: bestMag})
		}

		if len(candidates) == 0 {
			continue
		}

		var sum float64
		for _, c := range candidates {
			sum += c.mag
		}
		avg := sum / float64(len(candidates))

		timeMS := i * hop * 1000 / sampleRate
		for _, c := range candidates {
			if c.mag > avg {
				out = append(out, Peak{TimeMS: timeMS, FreqHz: c.binFreq, Mag: c.mag})
			}
		}
	}

	return out
}
