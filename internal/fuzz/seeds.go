package fuzz

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"fn main() {}\n",
	"fn main() { let mut x: i32 = 5; x = x + 1; }",
	"fn main() { let x: i32 = 5; x = 10; }",
	"const N: usize = 4; fn main() { let a: [u8; N] = [0; N]; let b = a[N - 1]; }",
	"const C: i32 = 2147483647 + 1;",
	"const A: i32 = B; const B: i32 = A;",
	"struct P { x: i32, y: i32 } impl P { fn new(x: i32) -> Self { P { x, y: 0 } } fn sum(&self) -> i32 { self.x + self.y } }",
	"trait Area { fn area(&self) -> f64; fn twice(&self) -> f64 { self.area() * 2.0 } }",
	"enum Shape { Circle, Square } fn main() { let s = Shape::Circle; }",
	"fn main() { let mut v = 1; let r = &mut v; *r = 2; let s = &v; }",
	"fn main() { let x = loop { break 7; }; while x > 0 { continue; } }",
	"fn main() { let s: &str = \"hi\"; println(s); exit(0); }",
	"fn f() -> u32 { if true { return 1; } else { 2 } } fn main() {}",
	"fn main() { let t = 1 as u8 as i64; let b = !true && 1 < 2; }",
	"fn main() { self.x; let y: Self = 0; }",
	"impl Missing for Nothing {}",
	"fn main() { a < b < c; }",
	"fn main() { { { { } } } }",
	"fn f(a: &_) {} fn main() { f(; }",
}

func addSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
