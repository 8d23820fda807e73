package standards

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BytesPerMB converts configured megabyte limits into Exchange byte counts.
const BytesPerMB int64 = 1 << 20

// ErrUnrecognisedSize is returned when a size string carries no parenthesised byte count.
var ErrUnrecognisedSize = errors.New("unrecognised size format")

// MailboxPlan is a tenant-level mailbox template as returned by Get-MailboxPlan.
// Sizes keep Exchange's human format, e.g. "36 MB (37,748,736 bytes)".
type MailboxPlan struct {
	DisplayName    string `json:"DisplayName"`
	MaxSendSize    string `json:"MaxSendSize"`
	MaxReceiveSize string `json:"MaxReceiveSize"`
	GUID           string `json:"GUID"`
}

// Limits holds the desired byte limits applied to every plan.
type Limits struct {
	MaxSendBytes    int64 `json:"max_send_bytes"`
	MaxReceiveBytes int64 `json:"max_receive_bytes"`
}

// LimitsFromMB converts megabyte settings into byte limits.
func LimitsFromMB(sendMB, receiveMB int) Limits {
	return Limits{
		MaxSendBytes:    int64(sendMB) * BytesPerMB,
		MaxReceiveBytes: int64(receiveMB) * BytesPerMB,
	}
}

// SendMB returns the send limit in whole megabytes.
func (l Limits) SendMB() int64 { return l.MaxSendBytes / BytesPerMB }

// ReceiveMB returns the receive limit in whole megabytes.
func (l Limits) ReceiveMB() int64 { return l.MaxReceiveBytes / BytesPerMB }

var byteCountPattern = regexp.MustCompile(`\((\d{1,3}(?:,\d{3})+|\d+) bytes\)`)

// ParseByteSize extracts the byte count from an Exchange size string.
// The last "(N bytes)" group wins. N may use well-formed thousands separators.
func ParseByteSize(s string) (int64, error) {
	matches := byteCountPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognisedSize, s)
	}

	digits := strings.ReplaceAll(matches[len(matches)-1][1], ",", "")

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse byte count %q: %w", digits, err)
	}
	return n, nil
}

// FormatByteSize renders n the way Exchange reports sizes.
func FormatByteSize(n int64) string {
	return fmt.Sprintf("%s (%s bytes)", humanSize(n), groupThousands(n))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<30:
		return trimFloat(float64(n)/float64(1<<30)) + " GB"
	case n >= 1<<20:
		return trimFloat(float64(n)/float64(1<<20)) + " MB"
	case n >= 1<<10:
		return trimFloat(float64(n)/float64(1<<10)) + " KB"
	default:
		return strconv.FormatInt(n, 10) + " B"
	}
}

func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
