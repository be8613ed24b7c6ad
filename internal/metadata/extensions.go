package metadata

import (
	"path"
	"strings"
)

// Compression schemes recognized in filenames.
const (
	CompressionNone  = ""
	CompressionGzip  = "gz"
	CompressionBzip2 = "bz2"
)

// NGSFileTypes lists the file extensions recognized as Next Generation
// Sequencing data, used when summarizing a directory.
var NGSFileTypes = []string{
	"fa", "fasta", "csfasta", "qual", "fastq",
	"gff", "gff3", "gtf", "sam", "bam", "bai",
	"bed", "bd", "bdg", "bw", "xsq", "xls",
}

// SplitExtensions extracts the extension and compression type from a
// filename. The compression suffix (gz, bz2) is removed first and the
// remaining trailing extension is returned alongside it:
//
//	test              -> ("", "")
//	test.bz2          -> ("", "bz2")
//	test.fastq        -> ("fastq", "")
//	test.fastq.gz     -> ("fastq", "gz")
//	test.file.fastq.gz -> ("fastq", "gz")
//
// Empty strings indicate no extension or no compression.
func SplitExtensions(filen string) (ext, compression string) {
	parts := strings.Split(path.Base(filen), ".")
	last := parts[len(parts)-1]
	if last == CompressionGzip || last == CompressionBzip2 {
		compression = last
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 1 {
		ext = parts[len(parts)-1]
	}
	return ext, compression
}

// IsNGSFileType reports whether ext is a recognized sequencing data
// extension. The comparison is case-insensitive.
func IsNGSFileType(ext string) bool {
	ext = strings.ToLower(ext)
	for _, t := range NGSFileTypes {
		if ext == t {
			return true
		}
	}
	return false
}
