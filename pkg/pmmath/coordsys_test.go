package pmmath

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestCoordinateSystemOrthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1), // the classic failure case for naive basis construction
		NewVec3(1, 0, 0),
		NewVec3(0.577, 0.577, 0.577),
	}

	for _, n := range normals {
		n = n.Normalize()
		cs := NewCoordinateSystem(n)

		if math.Abs(cs.Tangent.Length()-1) > 1e-9 {
			t.Errorf("normal %v: tangent not unit length: %v", n, cs.Tangent.Length())
		}
		if math.Abs(cs.Bitangent.Length()-1) > 1e-9 {
			t.Errorf("normal %v: bitangent not unit length: %v", n, cs.Bitangent.Length())
		}
		if math.Abs(cs.Tangent.Dot(cs.Bitangent)) > 1e-9 {
			t.Errorf("normal %v: tangent/bitangent not orthogonal: %v", n, cs.Tangent.Dot(cs.Bitangent))
		}
		if math.Abs(cs.Tangent.Dot(n)) > 1e-9 {
			t.Errorf("normal %v: tangent not orthogonal to normal", n)
		}
		if math.Abs(cs.Bitangent.Dot(n)) > 1e-9 {
			t.Errorf("normal %v: bitangent not orthogonal to normal", n)
		}
	}
}

func TestCoordinateSystemRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		n := NewVec3(r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1).Normalize()
		if n.IsZero() {
			continue
		}
		cs := NewCoordinateSystem(n)
		world := NewVec3(r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1)
		local := cs.ToLocal(world)
		back := cs.ToWorld(local)
		if back.Subtract(world).Length() > 1e-9 {
			t.Fatalf("round trip mismatch for normal %v: %v != %v", n, back, world)
		}
	}
}

func TestRandomCosineDirectionStaysInHemisphere(t *testing.T) {
	normal := NewVec3(0, 0, 1)
	r := rand.New(rand.NewPCG(42, 7))

	const numSamples = 10000
	var totalCosine float64
	for i := 0; i < numSamples; i++ {
		dir := RandomCosineDirection(normal, r.Float64(), r.Float64())
		if math.Abs(dir.Length()-1) > 1e-6 {
			t.Fatalf("direction not unit length: %v", dir.Length())
		}
		cosTheta := dir.Dot(normal)
		if cosTheta < -1e-9 {
			t.Fatalf("sample %v fell below the hemisphere (cos=%v)", dir, cosTheta)
		}
		totalCosine += cosTheta
	}

	avgCosine := totalCosine / numSamples
	expected := 2.0 / 3.0
	if math.Abs(avgCosine-expected) > 0.02 {
		t.Errorf("average cosine %v too far from expected %v", avgCosine, expected)
	}
}

func TestRandomInUnitSphereBounded(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(r.Float64(), r.Float64(), r.Float64())
		if p.Length() > 1.0+1e-9 {
			t.Fatalf("sample %v outside unit sphere", p)
		}
	}
}
