package desi

// StructureMode selects which tags may fill the subject slot.
type StructureMode int

const (
	// StructureBasic takes only pronouns as subjects.
	StructureBasic StructureMode = iota
	// StructureRich takes pronouns or nouns as subjects.
	StructureRich
)

// Structure holds token indices of the main clause roles; -1 means not found.
type Structure struct {
	Subject     int   `json:"subject_idx"`
	Verb        int   `json:"verb_idx"`
	Object      int   `json:"object_idx"`
	Auxiliaries []int `json:"auxiliary_indices"`
}

// Complete reports whether both subject and verb were found.
func (s Structure) Complete() bool {
	return s.Subject >= 0 && s.Verb >= 0
}

// StructureAnalyzer finds clause roles with first-match heuristics. It is not
// a parser; complex or multi-clause sentences are analyzed approximately.
type StructureAnalyzer struct {
	idx  *grammarIndex
	mode StructureMode
}

// NewStructureAnalyzer creates an analyzer for the given grammar rules.
func NewStructureAnalyzer(g GrammarRules, mode StructureMode) *StructureAnalyzer {
	return &StructureAnalyzer{idx: newGrammarIndex(g), mode: mode}
}

// Analyze scans the tagged words once, left to right.
func (a *StructureAnalyzer) Analyze(words []string, tags []POSTag) Structure {
	s := Structure{Subject: -1, Verb: -1, Object: -1, Auxiliaries: []int{}}

	for i, tag := range tags {
		if i >= len(words) {
			break
		}
		switch {
		case s.Subject == -1 && a.isSubjectTag(tag):
			s.Subject = i
		case tag == POSVerb:
			if a.idx.isAuxiliary(words[i]) {
				s.Auxiliaries = append(s.Auxiliaries, i)
			} else if s.Verb == -1 {
				s.Verb = i
			}
		case s.Verb != -1 && s.Object == -1 && tag.IsNominal():
			s.Object = i
		}
	}
	return s
}

func (a *StructureAnalyzer) isSubjectTag(tag POSTag) bool {
	if tag == POSPronoun {
		return true
	}
	return a.mode == StructureRich && tag == POSNoun
}

// AnalysisType names the clause order implied by the structure.
func (s Structure) AnalysisType() string {
	switch {
	case !s.Complete():
		return "incomplete"
	case s.Subject < s.Verb:
		return "SVO"
	default:
		return "VSO or other"
	}
}
