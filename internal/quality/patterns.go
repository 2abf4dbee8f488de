package quality

import "regexp"

// Each table is checked top to bottom and the first match wins, so the more
// specific markers (REMUX before BluRay, DTS-HD MA before DTS) come first.

type marker[T any] struct {
	re    *regexp.Regexp
	value T
}

func mustMarker[T any](pattern string, value T) marker[T] {
	return marker[T]{re: regexp.MustCompile(`(?i)` + pattern), value: value}
}

func firstMatch[T any](table []marker[T], s string, fallback T) T {
	for _, m := range table {
		if m.re.MatchString(s) {
			return m.value
		}
	}
	return fallback
}

var resolutionMarkers = []marker[Resolution]{
	mustMarker(`\b(4320[pi]|8K)\b`, Resolution4320p),
	mustMarker(`\b(2160[pi]|4K|UHD)\b`, Resolution2160p),
	mustMarker(`\b1080[pi]\b`, Resolution1080p),
	mustMarker(`\b720[pi]\b`, Resolution720p),
	mustMarker(`\b576[pi]\b`, Resolution576p),
	mustMarker(`\b480[pi]\b`, Resolution480p),
}

var sourceMarkers = []marker[Source]{
	mustMarker(`\bREMUX\b`, SourceREMUX),
	mustMarker(`\b(BluRay|Blu-Ray|BDRip|BRRip|BD)\b`, SourceBluRay),
	mustMarker(`\b(WEB-DL|WEBDL|WEB\.DL)\b`, SourceWEBDL),
	mustMarker(`\b(WEBRip|WEB-Rip|WEB)\b`, SourceWEBRip),
	mustMarker(`\b(HDTV|PDTV|DSR)\b`, SourceHDTV),
	mustMarker(`\b(DVDRip|DVD-Rip|DVD)\b`, SourceDVDRip),
	mustMarker(`\b(DVDScr|DVD-Scr|DVDSCREENER)\b`, SourceDVDScr),
	mustMarker(`\b(TC|TELECINE)\b`, SourceTC),
	mustMarker(`\b(TS|TELESYNC|HDTS)\b`, SourceTS),
	mustMarker(`\b(CAM|HDCAM|CAMRip)\b`, SourceCAM),
}

var hdrMarkers = []marker[HDRFormat]{
	mustMarker(`\b(DV|DoVi|Dolby\.?Vision)\b`, DolbyVision),
	mustMarker(`(HDR10\+|HDR10Plus)`, HDR10Plus),
	mustMarker(`\b(HDR10|HDR)\b`, HDR10),
	mustMarker(`\bHLG\b`, HLG),
}

var audioMarkers = []marker[AudioCodec]{
	mustMarker(`\bAtmos\b`, AudioAtmos),
	mustMarker(`\b(TrueHD|True-HD)\b`, AudioTrueHD),
	mustMarker(`\b(DTS-X|DTSX)\b`, AudioDTSX),
	mustMarker(`\b(DTS-HD\.?MA|DTS-HD\.Master\.Audio)\b`, AudioDTSHDMA),
	mustMarker(`\b(DTS-HD|DTSHD)\b`, AudioDTSHD),
	mustMarker(`\bDTS\b`, AudioDTS),
	mustMarker(`(EAC3|E-AC-3|DD\+|DDP\d|Dolby\.?Digital\.?Plus)`, AudioEAC3),
	mustMarker(`\b(AC3|AC-3|DD|Dolby\.?Digital)\b`, AudioAC3),
	mustMarker(`\bAAC\b`, AudioAAC),
}

var properPattern = regexp.MustCompile(`(?i)\b(PROPER|REPACK|RERIP)\b`)

func parseResolution(s string) Resolution {
	return firstMatch(resolutionMarkers, s, ResolutionUnknown)
}

func parseSource(s string) Source {
	return firstMatch(sourceMarkers, s, SourceUnknown)
}

func parseHDR(s string) HDRFormat {
	return firstMatch(hdrMarkers, s, HDRNone)
}

func parseAudio(s string) AudioCodec {
	return firstMatch(audioMarkers, s, AudioUnknown)
}
