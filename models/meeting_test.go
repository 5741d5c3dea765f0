// file: models/meeting_test.go
package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go-meet-hub/models"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestWaitingRoomSettingsMerge_PartialPatch(t *testing.T) {
	base := models.WaitingRoomSettings{
		Enabled:        true,
		MuteOnEntry:    false,
		WelcomeMessage: "hello",
	}

	merged := base.Merge(models.WaitingRoomSettingsPatch{
		MuteOnEntry: boolPtr(true),
	})

	assert.True(t, merged.Enabled)
	assert.True(t, merged.MuteOnEntry)
	assert.Equal(t, "hello", merged.WelcomeMessage)
}

func TestWaitingRoomSettingsMerge_EmptyPatchIsNoop(t *testing.T) {
	base := models.WaitingRoomSettings{Enabled: true, WelcomeMessage: "hi"}
	assert.Equal(t, base, base.Merge(models.WaitingRoomSettingsPatch{}))
}

func TestWaitingRoomSettingsMerge_CanClearWelcomeMessage(t *testing.T) {
	base := models.WaitingRoomSettings{WelcomeMessage: "hi"}
	merged := base.Merge(models.WaitingRoomSettingsPatch{WelcomeMessage: strPtr("")})
	assert.Empty(t, merged.WelcomeMessage)
}

func TestDefaultMeetingPermissions(t *testing.T) {
	p := models.DefaultMeetingPermissions()
	assert.True(t, p.AllowRename)
	assert.True(t, p.AllowUnmute)
	assert.True(t, p.AllowHandRaising)
	assert.True(t, p.ChatEnabled)
	assert.True(t, p.FileSharing)
	assert.True(t, p.EmojiReactions)
	assert.False(t, p.MuteAllParticipants)
}

func TestMeetingPermissionsMerge_PartialPatch(t *testing.T) {
	base := models.DefaultMeetingPermissions()

	merged := base.Merge(models.MeetingPermissionsPatch{
		AllowRename: boolPtr(false),
		ChatEnabled: boolPtr(false),
	})

	assert.False(t, merged.AllowRename)
	assert.False(t, merged.ChatEnabled)
	// untouched fields keep their values
	assert.True(t, merged.AllowUnmute)
	assert.True(t, merged.AllowHandRaising)
	assert.True(t, merged.FileSharing)
}

func TestValidRecordingPermission(t *testing.T) {
	assert.True(t, models.ValidRecordingPermission(models.RecordingDisallowed))
	assert.True(t, models.ValidRecordingPermission(models.RecordingToComputer))
	assert.False(t, models.ValidRecordingPermission(models.RecordingPermission("Record to Cloud")))
	assert.False(t, models.ValidRecordingPermission(models.RecordingPermission("")))
}

func TestParticipantList(t *testing.T) {
	m := &models.Meeting{
		Participants: map[string]*models.Participant{
			"s1": {SocketID: "s1", Name: "Hana", IsHost: true},
			"s2": {SocketID: "s2", Name: "Alice"},
		},
	}

	list := m.ParticipantList()
	assert.Len(t, list, 2)
	names := []string{list[0].Name, list[1].Name}
	assert.ElementsMatch(t, []string{"Hana", "Alice"}, names)
}
