package pinyin

// flagNames maps the §6 canonical flag names to their FuzzyFlag bits.
var flagNames = map[string]FuzzyFlag{
	"None":         None,
	"NG_GN":        NGGN,
	"V_U":          VU,
	"AN_ANG":       ANANG,
	"EN_ENG":       ENENG,
	"IAN_IANG":     IANIANG,
	"UAN_UANG":     UANUANG,
	"IN_ING":       INING,
	"U_OU":         UOU,
	"C_CH":         CCH,
	"S_SH":         SSH,
	"Z_ZH":         ZZH,
	"F_H":          FH,
	"L_N":          LN,
	"L_R":          LR,
	"Inner":        Inner,
	"InnerShort":   InnerShort,
	"PartialFinal": PartialFinal,
	"CorrectV_U":   CorrectVU,
	"CorrectNG_GN": CorrectNGGN,
	"Advance":      Advance,
}

// ParseFlagNames ORs together the FuzzyFlag bits named in names, ignoring
// any name it does not recognize.
func ParseFlagNames(names []string) FuzzyFlag {
	var out FuzzyFlag
	for _, n := range names {
		out |= flagNames[n]
	}
	return out
}
