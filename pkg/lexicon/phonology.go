package lexicon

import (
	"strings"
	"unicode/utf8"
)

func isVowel(r rune) bool {
	return strings.ContainsRune("aeıioöuü", r)
}

func isBack(r rune) bool {
	return strings.ContainsRune("aıou", r)
}

func isRounded(r rune) bool {
	return strings.ContainsRune("oöuü", r)
}

func isVoiceless(r rune) bool {
	return strings.ContainsRune("çfhkpsşt", r)
}

// lastVowel returns the last vowel in s, or 0 if there is none.
func lastVowel(s string) rune {
	for i := len(s); i > 0; {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if isVowel(r) {
			return r
		}
		i -= size
	}
	return 0
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// harmonizeA realizes the two-way archiphoneme A after vowel v.
func harmonizeA(v rune) rune {
	if v != 0 && !isBack(v) {
		return 'e'
	}
	return 'a'
}

// harmonizeI realizes the four-way archiphoneme I after vowel v.
func harmonizeI(v rune) rune {
	switch {
	case v == 0:
		return 'ı'
	case isBack(v) && isRounded(v):
		return 'u'
	case isBack(v):
		return 'ı'
	case isRounded(v):
		return 'ü'
	default:
		return 'i'
	}
}

// realize returns the surface form of a suffix's lexical form when attached
// to the already realized text before it.
func realize(lexical, before string) string {
	body := lexical
	var buffer string
	if strings.HasPrefix(lexical, "(") {
		if end := strings.IndexByte(lexical, ')'); end > 0 {
			buffer, body = lexical[1:end], lexical[end+1:]
		}
	}

	var sb strings.Builder
	soFar := func() string { return before + sb.String() }

	if buffer != "" {
		prevVowel := isVowel(lastRune(before))
		bufVowel := isVowel(firstRune(buffer)) || firstRune(buffer) == 'I' || firstRune(buffer) == 'A'
		// A vowel buffer breaks up consonant clusters, a consonant buffer
		// breaks up vowel sequences.
		if before != "" && prevVowel != bufVowel {
			body = buffer + body
		}
	}

	for _, r := range body {
		switch r {
		case 'A':
			sb.WriteRune(harmonizeA(lastVowel(soFar())))
		case 'I':
			sb.WriteRune(harmonizeI(lastVowel(soFar())))
		case 'D':
			if isVoiceless(lastRune(soFar())) {
				sb.WriteRune('t')
			} else {
				sb.WriteRune('d')
			}
		case 'C':
			if isVoiceless(lastRune(soFar())) {
				sb.WriteRune('ç')
			} else {
				sb.WriteRune('c')
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
