package wml

// tagged reports whether input begins with tag, returning the remainder
// after it when it does.
func tagged(tag []byte, input []byte) (rest []byte, ok bool) {
	if len(input) < len(tag) {
		return input, false
	}
	for i := range tag {
		if input[i] != tag[i] {
			return input, false
		}
	}
	return input[len(tag):], true
}

// charPredicate classifies a single byte. tagged_many0 and the character
// class scanners below are all built on top of it; a predicate may be a
// single byte literal, a byte class, or a disjunction of either.
type charPredicate func(b byte) bool

func isByte(want byte) charPredicate {
	return func(b byte) bool { return b == want }
}

func anyOf(preds ...charPredicate) charPredicate {
	return func(b byte) bool {
		for _, p := range preds {
			if p(b) {
				return true
			}
		}
		return false
	}
}

// taggedMany0 greedily skips bytes matching predicate; it never fails, and
// returns input unchanged (zero skipped) when no byte matches.
func taggedMany0(pred charPredicate, input []byte) []byte {
	i := 0
	for i < len(input) && pred(input[i]) {
		i++
	}
	return input[i:]
}

func isSpaceOrTab(b byte) bool { return b == ' ' || b == '\t' }

// whitespace consumes one or more [ \t] bytes; it fails (returns ok=false)
// if none are present.
func whitespace(input []byte) (rest []byte, ok bool) {
	i := 0
	for i < len(input) && isSpaceOrTab(input[i]) {
		i++
	}
	if i == 0 {
		return input, false
	}
	return input[i:], true
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	default:
		return false
	}
}

func isTextDomainByte(b byte) bool {
	return isNameByte(b) || b == '-'
}

// scanRun scans the longest prefix of input matching pred, starting the
// resulting StringKey at offset. ok is false when the run is empty.
func scanRun(pred charPredicate, input []byte, offset int) (rest []byte, key StringKey, ok bool) {
	i := 0
	for i < len(input) && pred(input[i]) {
		i++
	}
	if i == 0 {
		return input, StringKey{}, false
	}
	return input[i:], StringKey{idx: offset, len: i}, true
}
