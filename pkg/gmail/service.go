package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	messagedomain "triago-backend/internal/message/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Scopes requested during the OAuth consent flow.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailSendScope,
	goauth2.UserinfoEmailScope,
	goauth2.UserinfoProfileScope,
}

// Profile is the OAuth userinfo subset the auth flow needs.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

type Service struct {
	oauth *oauth2.Config
}

func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL builds the consent URL. Offline access + forced consent so Google
// returns a refresh token on every connect.
func (s *Service) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode trades an authorization code for tokens.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	return token, nil
}

// RefreshAccessToken exchanges a refresh token for a fresh access token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	src := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("unable to refresh access token: %w", err)
	}
	return token.AccessToken, nil
}

// UserProfile fetches the OAuth userinfo for the given access token.
func (s *Service) UserProfile(ctx context.Context, accessToken string) (*Profile, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	svc, err := goauth2.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch user profile: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	return &Profile{Email: info.Email, Name: name, Picture: info.Picture}, nil
}

func (s *Service) gmailClient(ctx context.Context, accessToken string) (*gmail.Service, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// ListMessagesSince lists inbox messages received at or after the watermark.
// A nil watermark fetches a bounded recent window, never full history. The
// `after:` bound is second-granular and inclusive on the provider side, so
// duplicates around the boundary are expected; the caller dedups them.
func (s *Service) ListMessagesSince(ctx context.Context, accessToken string, since *time.Time, max int64) ([]*messagedomain.ProviderMessage, error) {
	srv, err := s.gmailClient(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	query := "is:inbox"
	if since != nil {
		query += fmt.Sprintf(" after:%d", since.Unix())
	}

	if max <= 0 {
		max = 20
	}

	listResp, err := srv.Users.Messages.List("me").Q(query).MaxResults(max).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	messages := make([]*messagedomain.ProviderMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		full, err := srv.Users.Messages.Get("me", ref.Id).Format("full").Do()
		if err != nil {
			// Skip messages we cannot fetch; the rest of the batch proceeds.
			continue
		}
		messages = append(messages, convertMessage(full))
	}

	return messages, nil
}

// SendMessage sends a plain-text email, threaded when threadID is set, and
// returns the provider-assigned message id.
func (s *Service) SendMessage(ctx context.Context, accessToken, to, subject, body, threadID string) (string, error) {
	srv, err := s.gmailClient(ctx, accessToken)
	if err != nil {
		return "", err
	}

	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))

	var raw strings.Builder
	raw.WriteString(fmt.Sprintf("To: %s\r\n", to))
	raw.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	raw.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(body)

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString([]byte(raw.String())),
		ThreadId: threadID,
	}

	sent, err := srv.Users.Messages.Send("me", msg).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send message: %w", err)
	}

	return sent.Id, nil
}

// Helper functions

var fromPattern = regexp.MustCompile(`^(?:"?(.+?)"?\s*)?<?([^<>\s]+@[^<>\s]+)>?$`)

func convertMessage(msg *gmail.Message) *messagedomain.ProviderMessage {
	fromHeader := getHeader(msg.Payload.Headers, "From")
	fromName, fromEmail := parseFrom(fromHeader)

	return &messagedomain.ProviderMessage{
		ExternalID: msg.Id,
		ThreadID:   msg.ThreadId,
		From:       fromEmail,
		FromName:   fromName,
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		Body:       extractBody(msg.Payload),
		Snippet:    msg.Snippet,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
	}
}

// parseFrom splits a "Name <addr@host>" header into name and address parts.
func parseFrom(header string) (name, email string) {
	m := fromPattern.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return header, header
	}
	email = m[2]
	name = strings.TrimSpace(m[1])
	if name == "" {
		name = email
	}
	return name, email
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

var (
	styleBlockPattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagPattern         = regexp.MustCompile(`<[^>]+>`)
)

// extractBody pulls the text content out of a message payload, preferring
// text/plain parts and stripping tags from HTML-only bodies.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		text := decodeBase64(payload.Body.Data)
		if payload.MimeType == "text/html" {
			return stripHTML(text)
		}
		return text
	}

	var plainBody, htmlBody string
	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				switch part.MimeType {
				case "text/plain":
					if plainBody == "" {
						plainBody = decodeBase64(part.Body.Data)
					}
				case "text/html":
					if htmlBody == "" {
						htmlBody = decodeBase64(part.Body.Data)
					}
				}
			}
			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}
	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody
	}
	if htmlBody != "" {
		return stripHTML(htmlBody)
	}
	return ""
}

func stripHTML(html string) string {
	text := styleBlockPattern.ReplaceAllString(html, "")
	text = scriptBlockPattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

func decodeBase64(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}
