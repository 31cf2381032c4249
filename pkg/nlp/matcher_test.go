package nlp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchMentionsDirectMatch(t *testing.T) {
	diagnosis := "The Distal Tibia shows no acute abnormality. The talus is intact."
	labels := map[int]string{1: "distal tibia", 2: "talus", 3: "calcaneus"}

	matches, mentioned := MatchMentions(diagnosis, labels)

	require.True(t, matches[1].Mentioned)
	require.True(t, matches[2].Mentioned)
	require.False(t, matches[3].Mentioned)
	require.Equal(t, []string{"distal tibia", "talus"}, mentioned)
}

func TestMatchMentionsWordBoundary(t *testing.T) {
	// "tibial" must not count as a mention of "tibia".
	diagnosis := "Mild edema at the tibial plateau."
	labels := map[int]string{1: "tibia"}

	matches, mentioned := MatchMentions(diagnosis, labels)

	require.False(t, matches[1].Mentioned)
	require.Empty(t, mentioned)
}

func TestMatchMentionsCategoryPluralFallback(t *testing.T) {
	diagnosis := "The metatarsals appear intact. No abnormality of the phalanges."
	labels := map[int]string{
		1: "second metatarsal",
		2: "proximal phalanx",
		3: "medial cuneiform",
	}

	matches, mentioned := MatchMentions(diagnosis, labels)

	require.True(t, matches[1].Mentioned)
	require.True(t, matches[2].Mentioned)
	require.False(t, matches[3].Mentioned)
	require.Equal(t, []string{"second metatarsal", "proximal phalanx"}, mentioned)
}

func TestMatchMentionsTarsalBones(t *testing.T) {
	diagnosis := "The tarsal bones are unremarkable."
	labels := map[int]string{1: "tarsal navicular"}

	matches, _ := MatchMentions(diagnosis, labels)

	require.True(t, matches[1].Mentioned)
}

func TestMatchMentionsDeterministic(t *testing.T) {
	diagnosis := "Intact ligaments and tendons. The calcaneus is normal."
	labels := map[int]string{
		3: "achilles tendon",
		1: "deltoid ligament",
		2: "calcaneus",
	}

	first, firstMentioned := MatchMentions(diagnosis, labels)
	second, secondMentioned := MatchMentions(diagnosis, labels)

	require.Equal(t, first, second)
	require.Equal(t, firstMentioned, secondMentioned)
	// mentioned terms follow ascending region number
	require.Equal(t, []string{"deltoid ligament", "calcaneus", "achilles tendon"}, firstMentioned)
}

func TestMatchMentionsEmptyLabels(t *testing.T) {
	matches, mentioned := MatchMentions("anything at all", map[int]string{})

	require.Empty(t, matches)
	require.Empty(t, mentioned)
}
