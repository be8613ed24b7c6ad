package metadata

import "testing"

func TestSplitExtensions(t *testing.T) {
	cases := []struct {
		filen       string
		ext         string
		compression string
	}{
		{"test", "", ""},
		{"test.bz2", "", "bz2"},
		{"test.fastq", "fastq", ""},
		{"test.fastq.gz", "fastq", "gz"},
		{"test.file.fastq.gz", "fastq", "gz"},
		{"dir/sample.csfasta", "csfasta", ""},
		{"archive.tar.bz2", "tar", "bz2"},
	}
	for _, c := range cases {
		ext, compression := SplitExtensions(c.filen)
		if ext != c.ext || compression != c.compression {
			t.Errorf("SplitExtensions(%q) = (%q, %q), want (%q, %q)",
				c.filen, ext, compression, c.ext, c.compression)
		}
	}
}

func TestIsNGSFileType(t *testing.T) {
	if !IsNGSFileType("fastq") {
		t.Errorf("expected fastq to be an NGS type")
	}
	if !IsNGSFileType("FASTQ") {
		t.Errorf("expected case-insensitive match")
	}
	if IsNGSFileType("txt") {
		t.Errorf("did not expect txt to be an NGS type")
	}
}
