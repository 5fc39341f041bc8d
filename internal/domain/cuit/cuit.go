// Package cuit valida la Clave Única de Identificación Tributaria/Laboral
// argentina (AFIP): 11 dígitos, los dos primeros de tipo, ocho de documento
// y un dígito verificador módulo 11.
package cuit

import (
	"fmt"
	"unicode"
)

// pesos del algoritmo módulo 11 de AFIP, aplicados a los 10 primeros dígitos
// del CUIT de izquierda a derecha.
var pesos = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// SoloDigitos recorta todo lo que no sea dígito ("20-30405060-7" → "20304050607").
// Es también la derivación de la contraseña inicial de una empresa aprobada.
func SoloDigitos(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// Validar verifica el formato: exactamente 11 dígitos una vez removidos
// separadores. No verifica el dígito verificador (ver ValidarDigitoVerificador).
func Validar(cuit string) error {
	digits := SoloDigitos(cuit)
	if len(digits) != 11 {
		return fmt.Errorf("cuit: se requieren 11 dígitos, se encontraron %d", len(digits))
	}
	return nil
}

// ValidarDigitoVerificador valida formato y dígito verificador módulo 11.
func ValidarDigitoVerificador(cuit string) error {
	if err := Validar(cuit); err != nil {
		return err
	}
	digits := SoloDigitos(cuit)
	esperado, err := CalcularDigitoVerificador(digits[:10])
	if err != nil {
		return err
	}
	if digits[10] != esperado {
		return fmt.Errorf("cuit: dígito verificador inválido: esperado %c, recibido %c", esperado, digits[10])
	}
	return nil
}

// CalcularDigitoVerificador calcula el dígito verificador para los 10 primeros
// dígitos del CUIT. Resto 0 → dígito 0; resto 1 (dígito 10, caso sin
// representación) se pliega a 9 según la convención administrativa.
func CalcularDigitoVerificador(base string) (byte, error) {
	digits := SoloDigitos(base)
	if len(digits) < 10 {
		return 0, fmt.Errorf("cuit: se requieren 10 dígitos para calcular el verificador, se encontraron %d", len(digits))
	}
	var suma int
	for i := 0; i < 10; i++ {
		suma += int(digits[i]-'0') * pesos[i]
	}
	resto := suma % 11
	switch resto {
	case 0:
		return '0', nil
	case 1:
		return '9', nil
	default:
		return byte('0' + (11 - resto)), nil
	}
}
