package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// ErrMalformedOBJ reports a syntax or index error in an OBJ file.
var ErrMalformedOBJ = errors.New("malformed OBJ")

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: %s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// objKey identifies a unique position/texcoord/normal combination. Missing
// components are -1.
type objKey [3]int

// ParseOBJ reads positions (v), texture coordinates (vt), normals (vn) and
// faces (f). Polygons are fan-triangulated; negative indices count back from
// the latest element. Other statements are ignored. When the file has no
// normals they are computed from the faces.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []mathutil.Vec3
		uvs       []mathutil.Vec2
		normals   []mathutil.Vec3
	)
	m := &Mesh{}
	seen := make(map[objKey]uint32)
	hasNormals := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, line, err)
			}
			positions = append(positions, mathutil.Vec3{p[0], p[1], p[2]})
		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, line, err)
			}
			// OBJ puts v=0 at the bottom of the image.
			uvs = append(uvs, mathutil.Vec2{p[0], 1 - p[1]})
		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, line, err)
			}
			normals = append(normals, mathutil.Vec3{p[0], p[1], p[2]}.Normalize())
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 vertices", ErrMalformedOBJ, line)
			}
			poly := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				key, err := parseFaceRef(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, line, err)
				}
				idx, ok := seen[key]
				if !ok {
					v := raster.Vertex{Position: positions[key[0]], Color: white}
					if key[1] >= 0 {
						v.UV = uvs[key[1]]
					}
					if key[2] >= 0 {
						v.Normal = normals[key[2]]
						hasNormals = true
					}
					idx = uint32(len(m.Vertices))
					m.Vertices = append(m.Vertices, v)
					seen[key] = idx
				}
				poly = append(poly, idx)
			}
			for k := 1; k+1 < len(poly); k++ {
				m.Indices = append(m.Indices, poly[0], poly[k], poly[k+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mesh: read OBJ: %w", err)
	}
	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("%w: no faces", ErrMalformedOBJ)
	}
	if !hasNormals {
		m.ComputeNormals()
	}
	return m, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceRef decodes "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices.
func parseFaceRef(ref string, nv, nt, nn int) (objKey, error) {
	key := objKey{-1, -1, -1}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return key, fmt.Errorf("bad vertex reference %q", ref)
	}
	limits := [3]int{nv, nt, nn}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return key, fmt.Errorf("missing position index in %q", ref)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return key, fmt.Errorf("bad index in %q: %w", ref, err)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += limits[i]
		default:
			return key, fmt.Errorf("zero index in %q", ref)
		}
		if n < 0 || n >= limits[i] {
			return key, fmt.Errorf("index out of range in %q", ref)
		}
		key[i] = n
	}
	return key, nil
}
