// Package mqtt derives the broker address and subscribe command strings for
// the mqttx command line client.
package mqtt

import (
	"fmt"
	"strings"

	"github.com/studiowebux/mqttcmd/internal/types"
)

// SubscribeInvocation is the client invocation every command starts with
const SubscribeInvocation = "mqttx sub"

// shellMetachars are sequences in extraArgs that the shell would interpret
var shellMetachars = []string{";", "|", "&", "`", "$(", ">", "<", "\n"}

// BrokerAddress formats the connection flags for a broker.
// Values are single-quoted; ExtraArgs is appended verbatim.
func BrokerAddress(b *types.Broker) string {
	if b == nil {
		return ""
	}
	addr := fmt.Sprintf("-h '%s' -p '%s' -u '%s' -P '%s' %s",
		b.Host, b.Port.String(), b.Username, b.Password, b.ExtraArgsText())
	return strings.TrimSpace(addr)
}

// SubscribeCommand builds the full subscribe command for an address and topics.
// Either input being empty yields an empty command.
func SubscribeCommand(address string, topics []string) string {
	if address == "" || len(topics) == 0 {
		return ""
	}

	flags := make([]string, len(topics))
	for i, t := range topics {
		flags[i] = fmt.Sprintf("-t '%s'", t)
	}
	return fmt.Sprintf("%s %s %s", SubscribeInvocation, address, strings.Join(flags, " "))
}

// ExtraArgsWarning describes shell metacharacters found in a broker's extra
// arguments. It returns an empty string when there is nothing to report.
// The derived strings are never altered.
func ExtraArgsWarning(b *types.Broker) string {
	if b == nil {
		return ""
	}
	extra := b.ExtraArgsText()

	var found []string
	for _, m := range shellMetachars {
		if strings.Contains(extra, m) {
			if m == "\n" {
				m = `\n`
			}
			found = append(found, m)
		}
	}
	if len(found) == 0 {
		return ""
	}
	return fmt.Sprintf("extraArgs of %q is inserted unquoted and contains %s", b.Title, strings.Join(found, " "))
}
