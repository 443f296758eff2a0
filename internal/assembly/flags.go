package assembly

import (
	"fmt"
	"strings"

	"companionforge/internal/record"
)

var actorFlags = map[string]record.ActorFlag{
	"female":        record.ActorFemale,
	"essential":     record.ActorEssential,
	"autocalcstats": record.ActorAutoCalcStats,
	"unique":        record.ActorUnique,
}

var sceneActorFlags = map[string]record.SceneActorFlag{
	"deathend":      record.SceneActorDeathEnd,
	"combatend":     record.SceneActorCombatEnd,
	"dialoguepause": record.SceneActorDialoguePause,
}

var actionFlags = map[string]record.ActionFlag{
	"facetarget":          record.ActionFaceTarget,
	"headtrackplayer":     record.ActionHeadtrackPlayer,
	"cameraspeakertarget": record.ActionCameraSpeakerTarget,
}

func table[F ~uint32](what string, names map[string]F) func(string) (F, error) {
	return func(name string) (F, error) {
		if flag, ok := names[strings.ToLower(strings.TrimSpace(name))]; ok {
			return flag, nil
		}
		return 0, fmt.Errorf("unknown %s flag %q", what, name)
	}
}

func parseFlags[F ~uint32](names []string, parse func(string) (F, error)) (F, error) {
	var out F
	for _, name := range names {
		flag, err := parse(name)
		if err != nil {
			return 0, err
		}
		out |= flag
	}
	return out, nil
}
