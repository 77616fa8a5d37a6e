package chi

import (
	"bytes"
	"io"
	"mime"
	"net/http"

	"github.com/pavneets956-design/Align/internal/metrics"
	voiceuc "github.com/pavneets956-design/Align/internal/usecase/voice"
)

// maxAudioBytes caps the upload size. Typical voice notes are well
// under a megabyte.
const maxAudioBytes = 25 << 20

// rawUploadFilename names raw-blob uploads for the transcription
// provider, which infers the container format from the extension.
const rawUploadFilename = "voice.webm"

// Voice handles POST /voice: audio in, SSE reply stream out.
func (s *Server) Voice(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		metrics.RateLimitDenialsTotal.Inc()
		writeError(w, http.StatusTooManyRequests, codeRateLimited)
		return
	}

	audio, filename, targetLang, err := extractAudio(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeAudioRequired)
		return
	}

	reply, err := s.voice.Respond(r.Context(), voiceuc.Request{
		Audio:      audio,
		Filename:   filename,
		TargetLang: targetLang,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.streamReply(w, r, reply)
}

// extractAudio pulls the audio body and the optional explicit reply
// language from the request. Multipart uploads use the "audio" file
// field; anything else is treated as a raw audio blob. The targetLang
// form field overrides the query parameter.
func extractAudio(w http.ResponseWriter, r *http.Request) (audio io.Reader, filename, targetLang string, err error) {
	targetLang = r.URL.Query().Get("targetLang")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
			return nil, "", targetLang, err
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			return nil, "", targetLang, err
		}
		if lang := r.FormValue("targetLang"); lang != "" {
			targetLang = lang
		}
		return file, header.Filename, targetLang, nil
	}

	body := http.MaxBytesReader(w, r.Body, maxAudioBytes)

	// Raw uploads carry no length marker we can trust, so probe one
	// byte to reject empty bodies before transcription.
	probe := make([]byte, 1)
	n, readErr := body.Read(probe)
	if n == 0 {
		if readErr == nil || readErr == io.EOF {
			return nil, "", targetLang, io.EOF
		}
		return nil, "", targetLang, readErr
	}

	return io.MultiReader(bytes.NewReader(probe[:n]), body), rawUploadFilename, targetLang, nil
}
