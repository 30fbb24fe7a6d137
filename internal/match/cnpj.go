package match

// ValidTaxID validates a Brazilian CNPJ: 14 digits after stripping
// punctuation, not all the same digit, and both check digits correct.
func ValidTaxID(cnpj string) bool {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return false
	}

	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if cnpjCheckDigit(digits, 12) != int(digits[12]-'0') {
		return false
	}
	return cnpjCheckDigit(digits, 13) == int(digits[13]-'0')
}

// cnpjCheckDigit computes the check digit over the first size digits
// using the alternating 2..9 weight sequence.
func cnpjCheckDigit(digits string, size int) int {
	sum := 0
	pos := size - 7
	for i := 0; i < size; i++ {
		sum += int(digits[i]-'0') * pos
		pos--
		if pos < 2 {
			pos = 9
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}
