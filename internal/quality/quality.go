// Package quality ranks duplicate candidates by the quality markers in their
// file names (resolution, source, HDR, audio) so a group can suggest which
// copy to keep.
package quality

import (
	"path/filepath"
	"strings"
)

// Source is the release source, ordered from worst to best.
type Source int

const (
	SourceUnknown Source = iota
	SourceCAM
	SourceTS
	SourceTC
	SourceDVDScr
	SourceDVDRip
	SourceHDTV
	SourceWEBRip
	SourceWEBDL
	SourceBluRay
	SourceREMUX
)

var sourceNames = map[Source]string{
	SourceCAM:    "CAM",
	SourceTS:     "TS",
	SourceTC:     "TC",
	SourceDVDScr: "DVDScr",
	SourceDVDRip: "DVDRip",
	SourceHDTV:   "HDTV",
	SourceWEBRip: "WEBRip",
	SourceWEBDL:  "WEB-DL",
	SourceBluRay: "BluRay",
	SourceREMUX:  "REMUX",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Resolution is the vertical resolution in lines, 0 when unknown.
type Resolution int

const (
	ResolutionUnknown Resolution = 0
	Resolution480p    Resolution = 480
	Resolution576p    Resolution = 576
	Resolution720p    Resolution = 720
	Resolution1080p   Resolution = 1080
	Resolution2160p   Resolution = 2160
	Resolution4320p   Resolution = 4320
)

// HDRFormat is the dynamic range format.
type HDRFormat int

const (
	HDRNone HDRFormat = iota
	HLG
	HDR10
	HDR10Plus
	DolbyVision
)

// AudioCodec is the audio tier, ordered from worst to best.
type AudioCodec int

const (
	AudioUnknown AudioCodec = iota
	AudioAAC
	AudioAC3
	AudioEAC3
	AudioDTS
	AudioDTSHD
	AudioDTSHDMA
	AudioDTSX
	AudioTrueHD
	AudioAtmos
)

// Info is the quality parsed from one file path.
type Info struct {
	Source     Source
	Resolution Resolution
	HDR        HDRFormat
	Audio      AudioCodec
	IsProper   bool
	Score      int
}

// Parse reads quality markers from the file name, falling back to the parent
// directory for the source when the file name has none (release folders often
// carry the full name while the file inside is renamed).
func Parse(path string) Info {
	path = strings.ReplaceAll(path, `\`, "/")
	base := filepath.Base(path)
	name := markerText(strings.TrimSuffix(base, filepath.Ext(base)))

	info := Info{
		Resolution: parseResolution(name),
		Source:     parseSource(name),
		HDR:        parseHDR(name),
		Audio:      parseAudio(name),
		IsProper:   properPattern.MatchString(name),
	}

	if info.Source == SourceUnknown {
		if parent := filepath.Base(filepath.Dir(path)); parent != "." && parent != "/" {
			info.Source = parseSource(markerText(parent))
		}
	}

	info.Score = info.computeScore()
	return info
}

// markerText turns underscores into dots so \b boundaries work on
// "Movie_2019_1080p" style names.
func markerText(s string) string {
	return strings.ReplaceAll(s, "_", ".")
}

var (
	sourceScores = map[Source]int{
		SourceCAM: 5, SourceTS: 10, SourceTC: 15, SourceDVDScr: 20, SourceDVDRip: 25,
		SourceHDTV: 30, SourceWEBRip: 35, SourceWEBDL: 40, SourceBluRay: 50, SourceREMUX: 60,
	}
	resolutionScores = map[Resolution]int{
		Resolution480p: 5, Resolution576p: 7, Resolution720p: 15,
		Resolution1080p: 25, Resolution2160p: 40, Resolution4320p: 50,
	}
	hdrScores = map[HDRFormat]int{
		HLG: 8, HDR10: 10, HDR10Plus: 12, DolbyVision: 15,
	}
	audioScores = map[AudioCodec]int{
		AudioAAC: 2, AudioAC3: 4, AudioEAC3: 5, AudioDTS: 6, AudioDTSHD: 8,
		AudioDTSHDMA: 10, AudioDTSX: 11, AudioTrueHD: 12, AudioAtmos: 15,
	}
)

func (q Info) computeScore() int {
	score, ok := sourceScores[q.Source]
	if !ok {
		score = 20
	}
	if r, ok := resolutionScores[q.Resolution]; ok {
		score += r
	} else {
		score += 10
	}
	score += hdrScores[q.HDR]
	score += audioScores[q.Audio]
	if q.IsProper {
		score += 3
	}
	return score
}

func (q Info) String() string {
	var parts []string
	if q.Resolution != ResolutionUnknown {
		parts = append(parts, resolutionLabel(q.Resolution))
	}
	if q.Source != SourceUnknown {
		parts = append(parts, q.Source.String())
	}
	switch q.HDR {
	case HDR10:
		parts = append(parts, "HDR10")
	case HDR10Plus:
		parts = append(parts, "HDR10+")
	case DolbyVision:
		parts = append(parts, "DV")
	case HLG:
		parts = append(parts, "HLG")
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, " ")
}

func resolutionLabel(r Resolution) string {
	switch r {
	case Resolution4320p:
		return "8K"
	case Resolution2160p:
		return "2160p"
	case Resolution1080p:
		return "1080p"
	case Resolution720p:
		return "720p"
	case Resolution576p:
		return "576p"
	case Resolution480p:
		return "480p"
	default:
		return "unknown"
	}
}
