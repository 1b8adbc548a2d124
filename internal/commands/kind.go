package commands

import (
	"strings"
)

// Kind is the closed set of slash commands. Free-text command names are
// resolved to a Kind once, so unknown input is a distinct variant rather than
// a string that fails every comparison.
type Kind int

const (
	KindUnknown Kind = iota
	KindHelp
	KindStatus
	KindScan
	KindMerge
	KindTag
	KindAudit
	KindFix
	KindDeploy
	KindCyberAi
	KindSmartContractAudit
	KindSmartBrain
	KindGitAntivirus
	KindNodeAudit
	KindConflictsResolver
)

// Section groups commands the way the help reply and the catalogue list them.
type Section string

const (
	SectionCore      Section = "core"
	SectionAdvanced  Section = "advanced"
	SectionEcosystem Section = "ecosystem"
)

type kindInfo struct {
	name    string
	display string
	section Section
}

var kinds = map[Kind]kindInfo{
	KindHelp:               {"help", "help", SectionCore},
	KindStatus:             {"status", "status", SectionCore},
	KindScan:               {"scan", "scan", SectionCore},
	KindMerge:              {"merge", "merge", SectionCore},
	KindTag:                {"tag", "tag <name>", SectionCore},
	KindAudit:              {"audit", "audit", SectionAdvanced},
	KindFix:                {"fix", "fix", SectionAdvanced},
	KindDeploy:             {"deploy", "deploy", SectionAdvanced},
	KindCyberAi:            {"cyberai", "CyberAi", SectionEcosystem},
	KindSmartContractAudit: {"smartcontractaudit", "SmartContractAudit", SectionEcosystem},
	KindSmartBrain:         {"smartbrain", "SmartBrain", SectionEcosystem},
	KindGitAntivirus:       {"gitantivirus", "GitAntivirus", SectionEcosystem},
	KindNodeAudit:          {"nodeaudit", "NodeAudit", SectionEcosystem},
	KindConflictsResolver:  {"conflictsresolver", "ConflictsResolver", SectionEcosystem},
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(kinds))
	for k, info := range kinds {
		m[info.name] = k
	}
	return m
}()

// AllKinds returns every known command in help order.
func AllKinds() []Kind {
	return []Kind{
		KindHelp, KindStatus, KindScan, KindMerge, KindTag,
		KindAudit, KindFix, KindDeploy,
		KindCyberAi, KindSmartContractAudit, KindSmartBrain,
		KindGitAntivirus, KindNodeAudit, KindConflictsResolver,
	}
}

// ParseKind resolves a command token, ignoring letter case.
func ParseKind(token string) Kind {
	if k, ok := byName[strings.ToLower(token)]; ok {
		return k
	}
	return KindUnknown
}

// String is the canonical lowercase command name.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// DisplayName is the command as users are shown it, e.g. "SmartBrain" or "tag <name>".
func (k Kind) DisplayName() string {
	if info, ok := kinds[k]; ok {
		return info.display
	}
	return k.String()
}

func (k Kind) Section() Section {
	return kinds[k].section
}

// DescriptionID is the catalogue message describing the command.
func (k Kind) DescriptionID() string {
	return "desc_" + k.String()
}

// Tokenize splits a comment body on whitespace. The first field is the
// /terminal prefix, the second the command name, the rest positional args.
func Tokenize(body string) (name string, args []string) {
	fields := strings.Fields(body)
	if len(fields) < 2 {
		return "", nil
	}
	return fields[1], fields[2:]
}
