package discord

import (
	"fmt"
	"strconv"
)

// PermissionSet is the Discord permission bitmask. Discord serializes it as
// a decimal string because it long outgrew 53 bits.
type PermissionSet uint64

// Permission bits, in Discord's numbering.
const (
	PermissionCreateInstantInvite   PermissionSet = 1 << 0
	PermissionKickMembers           PermissionSet = 1 << 1
	PermissionBanMembers            PermissionSet = 1 << 2
	PermissionAdministrator         PermissionSet = 1 << 3
	PermissionManageChannels        PermissionSet = 1 << 4
	PermissionManageGuild           PermissionSet = 1 << 5
	PermissionAddReactions          PermissionSet = 1 << 6
	PermissionViewAuditLog          PermissionSet = 1 << 7
	PermissionPrioritySpeaker       PermissionSet = 1 << 8
	PermissionStream                PermissionSet = 1 << 9
	PermissionViewChannel           PermissionSet = 1 << 10
	PermissionSendMessages          PermissionSet = 1 << 11
	PermissionSendTTSMessages       PermissionSet = 1 << 12
	PermissionManageMessages        PermissionSet = 1 << 13
	PermissionEmbedLinks            PermissionSet = 1 << 14
	PermissionAttachFiles           PermissionSet = 1 << 15
	PermissionReadMessageHistory    PermissionSet = 1 << 16
	PermissionMentionEveryone       PermissionSet = 1 << 17
	PermissionUseExternalEmojis     PermissionSet = 1 << 18
	PermissionViewGuildInsights     PermissionSet = 1 << 19
	PermissionConnect               PermissionSet = 1 << 20
	PermissionSpeak                 PermissionSet = 1 << 21
	PermissionMuteMembers           PermissionSet = 1 << 22
	PermissionDeafenMembers         PermissionSet = 1 << 23
	PermissionMoveMembers           PermissionSet = 1 << 24
	PermissionUseVAD                PermissionSet = 1 << 25
	PermissionChangeNickname        PermissionSet = 1 << 26
	PermissionManageNicknames       PermissionSet = 1 << 27
	PermissionManageRoles           PermissionSet = 1 << 28
	PermissionManageWebhooks        PermissionSet = 1 << 29
	PermissionManageExpressions     PermissionSet = 1 << 30
	PermissionUseAppCommands        PermissionSet = 1 << 31
	PermissionRequestToSpeak        PermissionSet = 1 << 32
	PermissionManageEvents          PermissionSet = 1 << 33
	PermissionManageThreads         PermissionSet = 1 << 34
	PermissionCreatePublicThreads   PermissionSet = 1 << 35
	PermissionCreatePrivateThreads  PermissionSet = 1 << 36
	PermissionUseExternalStickers   PermissionSet = 1 << 37
	PermissionSendMessagesInThreads PermissionSet = 1 << 38
	PermissionUseEmbeddedActivities PermissionSet = 1 << 39
	PermissionModerateMembers       PermissionSet = 1 << 40
)

// PermissionsAll is every defined bit set; guild owners resolve to this.
const PermissionsAll PermissionSet = 1<<41 - 1

// PermissionsDM is the fixed permission set inside direct message channels,
// where roles and overwrites do not exist.
const PermissionsDM = PermissionAddReactions |
	PermissionViewChannel |
	PermissionSendMessages |
	PermissionSendTTSMessages |
	PermissionEmbedLinks |
	PermissionAttachFiles |
	PermissionReadMessageHistory |
	PermissionMentionEveryone |
	PermissionUseExternalEmojis |
	PermissionConnect |
	PermissionSpeak |
	PermissionUseVAD |
	PermissionUseAppCommands

// permissionsTimeoutRetained is what survives an active communication
// timeout; every communication-capable bit is zeroed.
const permissionsTimeoutRetained = PermissionViewChannel | PermissionReadMessageHistory

// Has reports whether every bit of p2 is set.
func (p PermissionSet) Has(p2 PermissionSet) bool { return p&p2 == p2 }

// ApplyTimeout zeroes the communication-capable bits.
func (p PermissionSet) ApplyTimeout() PermissionSet { return p & permissionsTimeoutRetained }

// String returns the decimal form Discord uses on the wire.
func (p PermissionSet) String() string { return strconv.FormatUint(uint64(p), 10) }

// MarshalJSON encodes the bitmask as a quoted decimal string.
func (p PermissionSet) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts quoted and bare decimal forms.
func (p *PermissionSet) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' {
		str = str[1 : len(str)-1]
	}
	if str == "" || str == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("discord: unmarshal permission set %q: %w", str, err)
	}
	*p = PermissionSet(n)
	return nil
}
