package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleEndpoint is the Cloud Text-to-Speech synthesize method.
const GoogleEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// GoogleSynthesizer calls the Cloud Text-to-Speech REST API.
type GoogleSynthesizer struct {
	client   *http.Client
	endpoint string
}

// NewGoogleSynthesizer authenticates with the service account key stored in
// credentialsFile.
func NewGoogleSynthesizer(ctx context.Context, credentialsFile string) (*GoogleSynthesizer, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading tts credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, key, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parsing tts credentials: %w", err)
	}
	return NewGoogleSynthesizerWithClient(oauth2.NewClient(ctx, creds.TokenSource), GoogleEndpoint), nil
}

// NewGoogleSynthesizerWithClient uses an already authenticated client.
func NewGoogleSynthesizerWithClient(client *http.Client, endpoint string) *GoogleSynthesizer {
	return &GoogleSynthesizer{client: client, endpoint: endpoint}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	// base64 in the wire format; encoding/json decodes it into bytes.
	AudioContent []byte `json:"audioContent"`
}

// Synthesize returns MP3 audio for text in a neutral en-US voice.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var body synthesizeRequest
	body.Input.Text = text
	body.Voice.LanguageCode = "en-US"
	body.Voice.SSMLGender = "NEUTRAL"
	body.AudioConfig.AudioEncoding = "MP3"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling tts api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts api returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding tts response: %w", err)
	}
	if len(out.AudioContent) == 0 {
		return nil, fmt.Errorf("tts api returned no audio")
	}
	return out.AudioContent, nil
}
