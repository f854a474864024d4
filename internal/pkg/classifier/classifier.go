// Package classifier derives a course's category, degree and nominal duration from
// its free-text name.
package classifier

import "strings"

// Classification is the derived academic profile of a course.
type Classification struct {
	Category      string  `json:"category"`
	Degree        string  `json:"degree"`
	DurationYears float64 `json:"durationYears"`
}

// Default is returned when no rule matches.
var Default = Classification{Category: "General", Degree: "Certificate", DurationYears: 1}

type rule struct {
	match  func(name string) bool
	result Classification
}

func containsAny(name string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

func anyOf(needles ...string) func(string) bool {
	return func(name string) bool { return containsAny(name, needles...) }
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// hasWord reports whether w occurs in name delimited by non-alphanumerics or the
// ends of the string
func hasWord(name, w string) bool {
	for i := 0; i+len(w) <= len(name); {
		j := strings.Index(name[i:], w)
		if j < 0 {
			return false
		}
		j += i
		end := j + len(w)
		if (j == 0 || !isWordByte(name[j-1])) && (end == len(name) || !isWordByte(name[end])) {
			return true
		}
		i = j + 1
	}
	return false
}

// spelled matches dotted forms as substrings and compact abbreviations as whole words
func spelled(dotted, compact string) func(string) bool {
	return func(name string) bool { return strings.Contains(name, dotted) || hasWord(name, compact) }
}

// rules are evaluated top to bottom and the first match wins. Several keywords are
// substrings of others ("b.e" in "b.ed", "b.a" in "b.arch", "ms" in "msc"), so the
// order is part of the contract.
var rules = []rule{
	{anyOf("phd", "ph.d"), Classification{"Research", "Ph.D", 3}},
	{anyOf("m.phil", "mphil"), Classification{"Research", "M.Phil", 2}},

	{anyOf("mbbs"), Classification{"Medical", "MBBS", 5.5}},
	{anyOf("bds"), Classification{"Medical", "BDS", 5}},
	{anyOf("bams"), Classification{"Medical", "BAMS", 5.5}},
	{anyOf("bhms"), Classification{"Medical", "BHMS", 5.5}},
	{anyOf("bpt", "physiotherapy"), Classification{"Medical", "BPT", 4.5}},
	{anyOf("nursing"), Classification{"Medical", "B.Sc Nursing", 4}},

	// "pharm.d." contains "m.d."
	{anyOf("pharm.d", "pharmd"), Classification{"Pharmacy", "Pharm.D", 6}},
	{anyOf("m.pharm", "mpharm"), Classification{"Pharmacy", "M.Pharm", 2}},
	{anyOf("b.pharm", "bpharm"), Classification{"Pharmacy", "B.Pharm", 4}},
	{anyOf("d.pharm", "dpharm"), Classification{"Pharmacy", "D.Pharm", 2}},

	{anyOf("m.d.", "doctor of medicine"), Classification{"Medical", "MD", 3}},

	{anyOf("m.tech", "mtech"), Classification{"Engineering", "M.Tech", 2}},
	{anyOf("b.tech", "btech"), Classification{"Engineering", "B.Tech", 4}},
	{spelled("m.ed", "med"), Classification{"Education", "M.Ed", 2}},
	{spelled("b.ed", "bed"), Classification{"Education", "B.Ed", 2}},
	{anyOf("m.e.", "m.e "), Classification{"Engineering", "M.E", 2}},
	{anyOf("b.e.", "b.e "), Classification{"Engineering", "B.E", 4}},
	{anyOf("diploma", "polytechnic"), Classification{"Engineering", "Diploma", 3}},

	{spelled("m.arch", "march"), Classification{"Architecture", "M.Arch", 2}},
	{anyOf("b.arch", "barch"), Classification{"Architecture", "B.Arch", 5}},

	{anyOf("ba llb", "b.a. llb", "b.a llb", "bba llb", "b.com llb", "bcom llb", "b.sc llb"), Classification{"Law", "Integrated LLB", 5}},
	{anyOf("llm", "ll.m"), Classification{"Law", "LLM", 1}},
	{anyOf("llb", "ll.b"), Classification{"Law", "LLB", 3}},

	{anyOf("mca"), Classification{"Computer Applications", "MCA", 2}},
	{anyOf("bca"), Classification{"Computer Applications", "BCA", 3}},
	{anyOf("mba", "pgdm"), Classification{"Management", "MBA", 2}},
	{anyOf("bba", "bbm"), Classification{"Management", "BBA", 3}},
	{anyOf("m.com", "mcom"), Classification{"Commerce", "M.Com", 2}},
	{anyOf("b.com", "bcom"), Classification{"Commerce", "B.Com", 3}},
	{anyOf("chartered account"), Classification{"Commerce", "CA", 4.5}},

	{anyOf("m.sc", "msc"), Classification{"Science", "M.Sc", 2}},
	{func(n string) bool { return containsAny(n, "b.sc", "bsc") && !strings.Contains(n, "nursing") }, Classification{"Science", "B.Sc", 3}},

	{anyOf("b.des", "bdes"), Classification{"Design", "B.Des", 4}},
	{anyOf("hotel management", "bhm"), Classification{"Hospitality", "BHM", 4}},
	{anyOf("journalism", "mass comm"), Classification{"Media", "BJMC", 3}},
	{anyOf("m.a.", "m.a "), Classification{"Arts", "M.A", 2}},
	{anyOf("b.a.", "b.a ", "bachelor of arts"), Classification{"Arts", "B.A", 3}},

	{func(n string) bool { return strings.Contains(n, "ms") && !strings.Contains(n, "master") }, Classification{"Medical", "MS", 3}},

	{anyOf("engineering"), Classification{"Engineering", "B.Tech", 4}},
	{anyOf("management"), Classification{"Management", "BBA", 3}},
	{anyOf("design"), Classification{"Design", "B.Des", 4}},
}

// Classify maps a course name onto its classification using ordered, case-insensitive
// substring rules. Names that match nothing get Default.
func Classify(courseName string) Classification {
	name := strings.ToLower(courseName)
	for _, r := range rules {
		if r.match(name) {
			return r.result
		}
	}
	return Default
}
