package validators

// FormatCPF renders 12345678901 as 123.456.789-01.
// Values that are not 11 digits are returned unchanged.
func FormatCPF(value string) string {
	d := OnlyDigits(value)
	if len(d) != cpfLength {
		return value
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// FormatCNPJ renders 12345678000190 as 12.345.678/0001-90
func FormatCNPJ(value string) string {
	d := OnlyDigits(value)
	if len(d) != cnpjLength {
		return value
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// FormatRG renders a 9 character RG as 12.345.678-9
func FormatRG(value string) string {
	d := NormalizeIdentityDocument(value)
	if len(d) != rgMaxLength {
		return value
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "-" + d[8:9]
}

// FormatCEP renders 01001000 as 01001-000
func FormatCEP(value string) string {
	d, ok := NormalizePostalCode(value)
	if !ok {
		return value
	}
	return d[0:5] + "-" + d[5:8]
}
